package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"readscore/config"
	"readscore/internal/adapter/memstore"
	"readscore/internal/adapter/metrics"
	"readscore/internal/domain"
	"readscore/internal/usecase"
)

func offlineConfig(lang string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Language.Provider = "fixed"
	cfg.Language.Fixed = lang
	cfg.Translation.Provider = "none"
	return cfg
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAnalyzer_Offline(t *testing.T) {
	uc, err := buildAnalyzer(offlineConfig("en"), discardLogger(), metrics.Noop{})
	require.NoError(t, err)

	result, err := uc.Analyze(context.Background(), "The cat sat on the mat. It was happy.")
	require.NoError(t, err)
	assert.InDelta(t, 108.2675, result.ReadabilityIndex, 1e-4)
	assert.Equal(t, domain.TonePositive, result.Tone)
	assert.Less(t, result.ObjectivityPercent, 50.0)
}

func TestFindReport(t *testing.T) {
	st := memstore.NewMemoryStore()
	older := usecase.NewReport("/docs/a.txt", time.Time{}, &domain.Result{WordCount: 1})
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := usecase.NewReport("/docs/a.txt", time.Time{}, &domain.Result{WordCount: 2})
	require.NoError(t, st.PutReport(older))
	require.NoError(t, st.PutReport(newer))

	got, err := findReport(st, older.ID)
	require.NoError(t, err)
	assert.Equal(t, older.ID, got.ID)

	got, err = findReport(st, "/docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, got.ID)

	_, err = findReport(st, "missing")
	assert.ErrorContains(t, err, "no report with id or source missing")
}

func TestOpenServeStore_InMemoryWithoutHistory(t *testing.T) {
	serveHistory = false
	st, err := openServeStore(config.DefaultConfig())
	require.NoError(t, err)
	defer st.Close()
	assert.IsType(t, &memstore.MemoryStore{}, st)

	rep := usecase.NewReport("inline", time.Time{}, &domain.Result{WordCount: 3})
	require.NoError(t, st.PutReport(rep))
	reports, err := st.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, rep.ID, reports[0].ID)
}

func TestBuildAnalyzer_TranslationDisabled(t *testing.T) {
	uc, err := buildAnalyzer(offlineConfig("ru"), discardLogger(), metrics.Noop{})
	require.NoError(t, err)

	_, err = uc.Analyze(context.Background(), "Привет мир. Как дела?")
	assert.ErrorIs(t, err, domain.ErrTranslationDisabled)
	assert.ErrorContains(t, describeFailure(err), "translation.provider")
}

func TestBuildAnalyzer_ProviderErrors(t *testing.T) {
	cfg := offlineConfig("en")
	cfg.Sentiment.Provider = "openai"
	cfg.LLM.OpenAI.APIKeyEnv = "READSCORE_TEST_UNSET_KEY"
	_, err := buildAnalyzer(cfg, discardLogger(), metrics.Noop{})
	assert.ErrorContains(t, err, "READSCORE_TEST_UNSET_KEY")

	_, err = newLLM("mystery", cfg)
	assert.ErrorIs(t, err, domain.ErrUnknownProvider)
}

func TestNewRenderer(t *testing.T) {
	cfg := offlineConfig("en")
	cfg.Labels = map[string]string{"tone": "Тон:"}

	r, err := newRenderer(cfg, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Result(&buf, &domain.Result{Tone: domain.ToneNeutral}))
	assert.Contains(t, buf.String(), "Тон: neutral\n")

	cfg.Labels = map[string]string{"nope": "x"}
	_, err = newRenderer(cfg, false)
	assert.Error(t, err)
}

func TestReadInput(t *testing.T) {
	cfg = config.DefaultConfig()
	t.Cleanup(func() {
		analyzeText, analyzeFile, analyzeURL = "", "", ""
	})

	source, _, text, err := readInput(context.Background(), strings.NewReader("from stdin"), nil)
	require.NoError(t, err)
	assert.Equal(t, "stdin", source)
	assert.Equal(t, "from stdin", text)

	_, _, text, err = readInput(context.Background(), nil, []string{"two", "words"})
	require.NoError(t, err)
	assert.Equal(t, "two words", text)

	analyzeText = "flag"
	_, _, _, err = readInput(context.Background(), nil, []string{"arg"})
	assert.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "<1s", formatDuration(500*time.Millisecond))
	assert.Equal(t, "42s", formatDuration(42*time.Second))
	assert.Equal(t, "2m5s", formatDuration(125*time.Second))
	assert.Equal(t, "1h30m", formatDuration(90*time.Minute))
}
