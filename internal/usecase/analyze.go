package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"readscore/internal/adapter/analyzer"
	"readscore/internal/domain"
	"readscore/internal/port"
)

// LanguageCodes names the detector codes with special meaning.
type LanguageCodes struct {
	English string // sentiment runs on the original text
	Russian string // Russian syllables and coefficients
}

// AnalyzeUseCase runs the readability and tone pipeline over one text.
type AnalyzeUseCase struct {
	tokenizer  port.Tokenizer
	segmenter  port.Segmenter
	detector   port.LanguageDetector
	translator port.Translator
	sentiment  port.SentimentAnalyzer
	codes      LanguageCodes
	metrics    port.Metrics
	logger     *slog.Logger
}

// NewAnalyzeUseCase creates a new analyze use case. translator may be nil,
// in which case non-English input fails at the translate stage.
func NewAnalyzeUseCase(
	tokenizer port.Tokenizer,
	segmenter port.Segmenter,
	detector port.LanguageDetector,
	translator port.Translator,
	sentiment port.SentimentAnalyzer,
	codes LanguageCodes,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		tokenizer:  tokenizer,
		segmenter:  segmenter,
		detector:   detector,
		translator: translator,
		sentiment:  sentiment,
		codes:      codes,
		logger:     slog.Default(),
	}
}

// WithMetrics sets the metrics recorder.
func (u *AnalyzeUseCase) WithMetrics(m port.Metrics) *AnalyzeUseCase {
	u.metrics = m
	return u
}

// WithLogger sets the logger.
func (u *AnalyzeUseCase) WithLogger(l *slog.Logger) *AnalyzeUseCase {
	u.logger = l
	return u
}

// Analyze computes the readability and tone profile of text. Every failure
// is returned as a *domain.StageError naming the failing stage.
func (u *AnalyzeUseCase) Analyze(ctx context.Context, text string) (result *domain.Result, err error) {
	start := time.Now()
	defer func() {
		if u.metrics != nil {
			u.metrics.ObserveAnalysis(result, err)
		}
		if err != nil {
			var se *domain.StageError
			if errors.As(err, &se) && se.External() {
				u.logger.WarnContext(ctx, "external service failed",
					slog.String("stage", string(se.Stage)),
					slog.Any("error", se.Err))
				return
			}
			u.logger.DebugContext(ctx, "analysis rejected", slog.Any("error", err))
			return
		}
		u.logger.DebugContext(ctx, "analysis completed",
			slog.Int("sentences", result.SentenceCount),
			slog.Int("words", result.WordCount),
			slog.String("language", result.LanguageCode),
			slog.Duration("duration", time.Since(start)))
	}()

	sentences := u.segmenter.Segment(text)
	if len(sentences) == 0 {
		return nil, stageErr(domain.StageSegment, domain.ErrEmptyInput)
	}
	words := u.tokenizer.Tokenize(text)
	if len(words) == 0 {
		return nil, stageErr(domain.StageTokenize, domain.ErrEmptyInput)
	}

	code, err := u.detector.Detect(ctx, text)
	if err != nil {
		return nil, stageErr(domain.StageDetect, err)
	}
	profile := analyzer.ProfileFor(domain.LanguageFor(code, u.codes.Russian))
	u.logger.DebugContext(ctx, "language detected",
		slog.String("code", code),
		slog.String("profile", profile.Language.String()))

	syllables := profile.CountSyllables(words)
	readability, err := domain.Score(len(sentences), len(words), syllables, profile.Coefficients)
	if err != nil {
		return nil, stageErr(domain.StageScore, err)
	}

	sentimentText := text
	translated := false
	if code != u.codes.English {
		if u.translator == nil {
			return nil, stageErr(domain.StageTranslate, domain.ErrTranslationDisabled)
		}
		sentimentText, err = u.translator.Translate(ctx, text)
		if err != nil {
			return nil, stageErr(domain.StageTranslate, err)
		}
		translated = true
	}

	sentiment, err := u.sentiment.Analyze(ctx, sentimentText)
	if err != nil {
		return nil, stageErr(domain.StageSentiment, err)
	}

	return &domain.Result{
		SentenceCount:       len(sentences),
		WordCount:           len(words),
		TotalSyllables:      syllables,
		AvgSentenceLength:   readability.AvgSentenceLength,
		AvgSyllablesPerWord: readability.AvgSyllablesPerWord,
		ReadabilityIndex:    readability.Index,
		Interpretation:      readability.Interpretation,
		Tone:                domain.ClassifyTone(sentiment.Polarity),
		ObjectivityPercent:  sentiment.Objectivity(),
		LanguageCode:        code,
		Language:            profile.Language,
		Sentiment:           sentiment,
		Translated:          translated,
	}, nil
}

// AnalyzeReport analyzes text and wraps the result in a new report.
func (u *AnalyzeUseCase) AnalyzeReport(ctx context.Context, source string, modTime time.Time, text string) (domain.Report, error) {
	result, err := u.Analyze(ctx, text)
	if err != nil {
		return domain.Report{}, err
	}
	return NewReport(source, modTime, result), nil
}

// NewReport assigns an id and creation time to a result.
func NewReport(source string, modTime time.Time, result *domain.Result) domain.Report {
	return domain.Report{
		ID:        uuid.NewString(),
		Source:    source,
		ModTime:   modTime,
		CreatedAt: time.Now().UTC(),
		Result:    *result,
	}
}

func stageErr(stage domain.Stage, err error) error {
	return &domain.StageError{Stage: stage, Err: err}
}
