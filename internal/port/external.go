package port

import (
	"context"

	"readscore/internal/domain"
)

// LanguageDetector identifies the language of a text and returns a code
// such as "en" or "ru".
type LanguageDetector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator renders text in English.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// SentimentAnalyzer scores English text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (domain.Sentiment, error)
}

// TextFetcher loads the text to analyze from a remote source.
type TextFetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}
