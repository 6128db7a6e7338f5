package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"readscore/internal/domain"
	"readscore/internal/port"
)

const sentimentSystemPrompt = `You rate the sentiment of English text.
Reply with a single JSON object and nothing else:
{"polarity": <number from -1 to 1>, "subjectivity": <number from 0 to 1>}
Polarity is -1 for entirely negative, 0 for neutral and 1 for entirely positive.
Subjectivity is 0 for purely factual and 1 for purely opinion.`

// LLM scores sentiment by prompting a chat model for a JSON verdict.
type LLM struct {
	llm port.LLM
}

func NewLLM(llm port.LLM) *LLM {
	return &LLM{llm: llm}
}

type verdict struct {
	Polarity     *float64 `json:"polarity"`
	Subjectivity *float64 `json:"subjectivity"`
}

func (a *LLM) Analyze(ctx context.Context, text string) (domain.Sentiment, error) {
	out, err := a.llm.GenerateWithSystem(ctx, sentimentSystemPrompt, text)
	if err != nil {
		return domain.Sentiment{}, err
	}
	return parseVerdict(out)
}

// parseVerdict accepts the first JSON object in out, tolerating code fences
// and surrounding prose, and clamps both scores into range.
func parseVerdict(out string) (domain.Sentiment, error) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start < 0 || end < start {
		return domain.Sentiment{}, fmt.Errorf("sentiment reply has no JSON object: %q", truncate(out, 120))
	}

	var v verdict
	if err := json.Unmarshal([]byte(out[start:end+1]), &v); err != nil {
		return domain.Sentiment{}, fmt.Errorf("failed to parse sentiment reply: %w", err)
	}
	if v.Polarity == nil || v.Subjectivity == nil {
		return domain.Sentiment{}, fmt.Errorf("sentiment reply is missing polarity or subjectivity")
	}

	return domain.Sentiment{
		Polarity:     clamp(*v.Polarity, -1, 1),
		Subjectivity: clamp(*v.Subjectivity, 0, 1),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ port.SentimentAnalyzer = (*LLM)(nil)
