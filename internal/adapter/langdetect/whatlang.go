package langdetect

import (
	"context"
	"fmt"

	"github.com/abadojack/whatlanggo"
	"readscore/internal/port"
)

// WhatlangDetector identifies languages offline with trigram profiles.
type WhatlangDetector struct{}

func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect returns the ISO 639-1 code of the most likely language.
func (d *WhatlangDetector) Detect(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", fmt.Errorf("language could not be identified (confidence %.2f)", info.Confidence)
	}
	return code, nil
}

// FixedDetector always reports the same language code.
type FixedDetector struct {
	code string
}

func NewFixedDetector(code string) *FixedDetector {
	return &FixedDetector{code: code}
}

func (d *FixedDetector) Detect(ctx context.Context, text string) (string, error) {
	return d.code, nil
}

var (
	_ port.LanguageDetector = (*WhatlangDetector)(nil)
	_ port.LanguageDetector = (*FixedDetector)(nil)
)
