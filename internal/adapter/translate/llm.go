package translate

import (
	"context"
	"fmt"
	"strings"

	"readscore/internal/port"
)

const translateSystemPrompt = `You are a translation engine. Translate the user's text into %s.
Preserve sentence boundaries and punctuation. Reply with the translation only, without commentary or quotes.`

// LLM translates by prompting a chat model.
type LLM struct {
	llm    port.LLM
	target string
}

func NewLLM(llm port.LLM, target string) *LLM {
	if target == "" {
		target = "en"
	}
	return &LLM{llm: llm, target: target}
}

func (t *LLM) Translate(ctx context.Context, text string) (string, error) {
	out, err := t.llm.GenerateWithSystem(ctx, fmt.Sprintf(translateSystemPrompt, languageName(t.target)), text)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%s returned an empty translation", t.llm.ModelName())
	}
	return out, nil
}

func languageName(code string) string {
	switch code {
	case "en":
		return "English"
	case "ru":
		return "Russian"
	default:
		return code
	}
}

var _ port.Translator = (*LLM)(nil)
