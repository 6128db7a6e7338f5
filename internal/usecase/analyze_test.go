package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"readscore/internal/adapter/analyzer"
	"readscore/internal/domain"
	"readscore/internal/port"
)

type fakeDetector struct {
	code string
	err  error
}

func (f fakeDetector) Detect(context.Context, string) (string, error) {
	return f.code, f.err
}

type fakeTranslator struct {
	out   string
	err   error
	calls int
}

func (f *fakeTranslator) Translate(context.Context, string) (string, error) {
	f.calls++
	return f.out, f.err
}

type fakeSentiment struct {
	sentiment domain.Sentiment
	err       error
	got       string
}

func (f *fakeSentiment) Analyze(_ context.Context, text string) (domain.Sentiment, error) {
	f.got = text
	return f.sentiment, f.err
}

type fakeMetrics struct {
	results []*domain.Result
	errs    []error
}

func (m *fakeMetrics) ObserveAnalysis(r *domain.Result, err error) {
	m.results = append(m.results, r)
	m.errs = append(m.errs, err)
}

func (m *fakeMetrics) ObserveExternalCall(string, time.Duration, error) {}

var codes = LanguageCodes{English: "en", Russian: "ru"}

func newAnalyze(detector fakeDetector, translator *fakeTranslator, sentiment *fakeSentiment) *AnalyzeUseCase {
	var tr port.Translator
	if translator != nil {
		tr = translator
	}
	return NewAnalyzeUseCase(analyzer.NewTokenizer(), analyzer.NewSegmenter(), detector, tr, sentiment, codes)
}

func TestAnalyze_English(t *testing.T) {
	translator := &fakeTranslator{}
	sentiment := &fakeSentiment{sentiment: domain.Sentiment{Polarity: 0.8, Subjectivity: 1}}
	metrics := &fakeMetrics{}
	uc := newAnalyze(fakeDetector{code: "en"}, translator, sentiment).WithMetrics(metrics)

	text := "The cat sat on the mat. It was happy."
	result, err := uc.Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SentenceCount)
	assert.Equal(t, 9, result.WordCount)
	assert.Equal(t, 10, result.TotalSyllables)
	assert.InDelta(t, 4.5, result.AvgSentenceLength, 1e-9)
	assert.InDelta(t, 10.0/9.0, result.AvgSyllablesPerWord, 1e-9)
	assert.InDelta(t, 108.2675, result.ReadabilityIndex, 1e-4)
	assert.Equal(t, domain.InterpretationElementaryEasy, result.Interpretation)
	assert.Equal(t, domain.TonePositive, result.Tone)
	assert.InDelta(t, 0.0, result.ObjectivityPercent, 1e-9)
	assert.Equal(t, domain.LanguageEnglish, result.Language)
	assert.False(t, result.Translated)

	assert.Equal(t, 0, translator.calls, "English text must not be translated")
	assert.Equal(t, text, sentiment.got)

	require.Len(t, metrics.results, 1)
	assert.NoError(t, metrics.errs[0])
}

func TestAnalyze_RussianTranslatesForSentiment(t *testing.T) {
	translator := &fakeTranslator{out: "Hello world. How are you?"}
	sentiment := &fakeSentiment{sentiment: domain.Sentiment{Polarity: -0.3, Subjectivity: 0.25}}
	uc := newAnalyze(fakeDetector{code: "ru"}, translator, sentiment)

	result, err := uc.Analyze(context.Background(), "Привет мир. Как дела?")
	require.NoError(t, err)

	assert.Equal(t, 2, result.SentenceCount)
	assert.Equal(t, 4, result.WordCount)
	assert.Equal(t, 6, result.TotalSyllables)
	assert.InDelta(t, 206.835-1.3*2-60.1*1.5, result.ReadabilityIndex, 1e-9)
	assert.Equal(t, domain.LanguageRussian, result.Language)
	assert.Equal(t, domain.ToneNegative, result.Tone)
	assert.InDelta(t, 75.0, result.ObjectivityPercent, 1e-9)
	assert.True(t, result.Translated)
	assert.Equal(t, "Hello world. How are you?", sentiment.got)
}

func TestAnalyze_OtherLanguageUsesEnglishHeuristics(t *testing.T) {
	translator := &fakeTranslator{out: "translated"}
	uc := newAnalyze(fakeDetector{code: "de"}, translator, &fakeSentiment{})

	result, err := uc.Analyze(context.Background(), "Der Hund schläft.")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEnglish, result.Language)
	assert.Equal(t, "de", result.LanguageCode)
	assert.Equal(t, 1, translator.calls)
	assert.Equal(t, domain.ToneNeutral, result.Tone)
	assert.InDelta(t, 100.0, result.ObjectivityPercent, 1e-9)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	uc := newAnalyze(fakeDetector{code: "en"}, nil, &fakeSentiment{})

	for _, text := range []string{"", "   ", "123 456", "- - -"} {
		_, err := uc.Analyze(context.Background(), text)
		assert.ErrorIs(t, err, domain.ErrEmptyInput, "text %q", text)

		var se *domain.StageError
		require.ErrorAs(t, err, &se)
		assert.False(t, se.External())
	}
}

func TestAnalyze_ExternalFailuresKeepStage(t *testing.T) {
	boom := errors.New("service unavailable")

	tests := []struct {
		name       string
		detector   fakeDetector
		translator *fakeTranslator
		sentiment  *fakeSentiment
		wantStage  domain.Stage
		wantErr    error
	}{
		{
			name:       "detect",
			detector:   fakeDetector{err: boom},
			translator: &fakeTranslator{},
			sentiment:  &fakeSentiment{},
			wantStage:  domain.StageDetect,
			wantErr:    boom,
		},
		{
			name:       "translate",
			detector:   fakeDetector{code: "ru"},
			translator: &fakeTranslator{err: boom},
			sentiment:  &fakeSentiment{},
			wantStage:  domain.StageTranslate,
			wantErr:    boom,
		},
		{
			name:      "translation disabled",
			detector:  fakeDetector{code: "ru"},
			sentiment: &fakeSentiment{},
			wantStage: domain.StageTranslate,
			wantErr:   domain.ErrTranslationDisabled,
		},
		{
			name:       "sentiment",
			detector:   fakeDetector{code: "en"},
			translator: &fakeTranslator{},
			sentiment:  &fakeSentiment{err: boom},
			wantStage:  domain.StageSentiment,
			wantErr:    boom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &fakeMetrics{}
			uc := newAnalyze(tt.detector, tt.translator, tt.sentiment).WithMetrics(metrics)

			result, err := uc.Analyze(context.Background(), "Some text here. More text.")
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.wantErr)

			var se *domain.StageError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.wantStage, se.Stage)
			assert.True(t, se.External())

			require.Len(t, metrics.errs, 1)
			assert.Error(t, metrics.errs[0])
		})
	}
}

func TestAnalyzeReport(t *testing.T) {
	uc := newAnalyze(fakeDetector{code: "en"}, nil, &fakeSentiment{})
	mod := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rep, err := uc.AnalyzeReport(context.Background(), "a.txt", mod, "One sentence here.")
	require.NoError(t, err)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "a.txt", rep.Source)
	assert.Equal(t, mod, rep.ModTime)
	assert.False(t, rep.CreatedAt.IsZero())
	assert.Equal(t, 3, rep.Result.WordCount)
}
