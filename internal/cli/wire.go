package cli

import (
	"fmt"
	"log/slog"

	"readscore/config"
	"readscore/internal/adapter/analyzer"
	"readscore/internal/adapter/cache"
	"readscore/internal/adapter/langdetect"
	"readscore/internal/adapter/llm"
	"readscore/internal/adapter/resilience"
	"readscore/internal/adapter/sentiment"
	"readscore/internal/adapter/translate"
	"readscore/internal/domain"
	"readscore/internal/port"
	"readscore/internal/report"
	"readscore/internal/usecase"
)

// buildAnalyzer wires the configured providers behind their guards.
func buildAnalyzer(cfg *config.Config, logger *slog.Logger, metrics port.Metrics) (*usecase.AnalyzeUseCase, error) {
	detector, err := newDetector(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}
	translator, err := newTranslator(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}
	scorer, err := newSentiment(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	codes := usecase.LanguageCodes{
		English: cfg.Language.EnglishCode,
		Russian: cfg.Language.RussianCode,
	}
	uc := usecase.NewAnalyzeUseCase(analyzer.NewTokenizer(), analyzer.NewSegmenter(), detector, translator, scorer, codes).
		WithMetrics(metrics).
		WithLogger(logger)
	return uc, nil
}

func newGuard(service string, cfg *config.Config, logger *slog.Logger, metrics port.Metrics, opts ...resilience.GuardOption) *resilience.Guard {
	breaker := resilience.NewBreaker(service, cfg.Breaker, logger)
	return resilience.NewGuard(service, breaker, append(opts, resilience.WithMetrics(metrics))...)
}

func newDetector(cfg *config.Config, logger *slog.Logger, metrics port.Metrics) (port.LanguageDetector, error) {
	var detector port.LanguageDetector
	switch cfg.Language.Provider {
	case "whatlang":
		detector = langdetect.NewWhatlangDetector()
	case "fixed":
		detector = langdetect.NewFixedDetector(cfg.Language.Fixed)
	default:
		return nil, fmt.Errorf("%w: language provider %q", domain.ErrUnknownProvider, cfg.Language.Provider)
	}
	guard := newGuard("detect-language", cfg, logger, metrics, resilience.WithTimeout(cfg.Language.Timeout))
	return resilience.NewGuardedDetector(detector, guard), nil
}

// newTranslator returns nil when translation is disabled.
func newTranslator(cfg *config.Config, logger *slog.Logger, metrics port.Metrics) (port.Translator, error) {
	tc := cfg.Translation

	var inner port.Translator
	switch tc.Provider {
	case "none":
		return nil, nil
	case "google":
		inner = translate.NewGoogle(tc.BaseURL, tc.Target, tc.Timeout)
	case "openai", "claude":
		model, err := newLLM(tc.Provider, cfg)
		if err != nil {
			return nil, err
		}
		inner = translate.NewLLM(model, tc.Target)
	default:
		return nil, fmt.Errorf("%w: translation provider %q", domain.ErrUnknownProvider, tc.Provider)
	}

	guard := newGuard("translate", cfg, logger, metrics,
		resilience.WithTimeout(tc.Timeout),
		resilience.WithRateLimit(tc.RatePerSecond, tc.Burst))
	guarded := resilience.NewGuardedTranslator(inner, guard)

	// cache hits skip the rate limiter and the breaker
	return cache.NewCachedTranslator(guarded, cache.NewTranslationCache(tc.CacheSize, tc.CacheTTL), tc.Target), nil
}

func newSentiment(cfg *config.Config, logger *slog.Logger, metrics port.Metrics) (port.SentimentAnalyzer, error) {
	sc := cfg.Sentiment

	var inner port.SentimentAnalyzer
	opts := []resilience.GuardOption{resilience.WithTimeout(sc.Timeout)}
	switch sc.Provider {
	case "lexicon":
		lex, err := sentiment.NewLexicon()
		if err != nil {
			return nil, err
		}
		inner = lex
	case "openai", "claude":
		model, err := newLLM(sc.Provider, cfg)
		if err != nil {
			return nil, err
		}
		inner = sentiment.NewLLM(model)
		opts = append(opts, resilience.WithRateLimit(sc.RatePerSecond, sc.Burst))
	default:
		return nil, fmt.Errorf("%w: sentiment provider %q", domain.ErrUnknownProvider, sc.Provider)
	}

	return resilience.NewGuardedSentiment(inner, newGuard("sentiment", cfg, logger, metrics, opts...)), nil
}

func newLLM(provider string, cfg *config.Config) (port.LLM, error) {
	switch provider {
	case "openai":
		c := cfg.LLM.OpenAI
		client, err := llm.NewOpenAI(c.APIKeyEnv, c.Model, c.BaseURL)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "claude":
		c := cfg.LLM.Claude
		client, err := llm.NewClaude(c.APIKeyEnv, c.Model, c.MaxTokens)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: llm provider %q", domain.ErrUnknownProvider, provider)
	}
}

func newRenderer(cfg *config.Config, jsonOutput bool) (*report.Renderer, error) {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	if jsonOutput {
		format = report.FormatJSON
	}
	labels, err := report.DefaultLabels().Merge(cfg.Labels)
	if err != nil {
		return nil, fmt.Errorf("invalid labels: %w", err)
	}
	return report.NewRenderer(format, labels)
}
