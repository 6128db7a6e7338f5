package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"readscore/internal/domain"
)

func sampleResult() *domain.Result {
	return &domain.Result{
		SentenceCount:       2,
		WordCount:           9,
		TotalSyllables:      10,
		AvgSentenceLength:   4.5,
		AvgSyllablesPerWord: 10.0 / 9.0,
		ReadabilityIndex:    108.2675,
		Interpretation:      domain.InterpretationElementaryEasy,
		Tone:                domain.TonePositive,
		ObjectivityPercent:  0,
		LanguageCode:        "en",
		Sentiment:           domain.Sentiment{Polarity: 0.8, Subjectivity: 1},
	}
}

func TestRenderer_ResultText(t *testing.T) {
	r, err := NewRenderer(FormatText, DefaultLabels())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Result(&buf, sampleResult()))

	want := strings.Join([]string{
		"Sentences: 2",
		"Words: 9",
		"Syllables: 10",
		"Average sentence length: 4.5000",
		"Average syllables per word: 1.1111",
		"Readability index: 108.2675",
		"Very easy to read, suitable for elementary school.",
		"Tone: positive",
		"Objectivity: 0.0%",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_LabelOverrides(t *testing.T) {
	labels, err := DefaultLabels().Merge(map[string]string{
		"sentences": "Предложений:",
		"positive":  "позитивный",
	})
	require.NoError(t, err)

	r, err := NewRenderer(FormatText, labels)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Result(&buf, sampleResult()))
	assert.Contains(t, buf.String(), "Предложений: 2\n")
	assert.Contains(t, buf.String(), "Tone: позитивный\n")
}

func TestLabels_MergeRejectsUnknownKey(t *testing.T) {
	_, err := DefaultLabels().Merge(map[string]string{"sentenses": "x"})
	assert.ErrorContains(t, err, "sentenses")
}

func TestLabels_GetFallsBackToKey(t *testing.T) {
	assert.Equal(t, "missing", Labels{}.Get("missing"))
}

func TestRenderer_ResultJSON(t *testing.T) {
	r, err := NewRenderer(FormatJSON, DefaultLabels())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Result(&buf, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "elementary_easy", got["interpretation"])
	assert.Equal(t, "positive", got["tone"])
	assert.Equal(t, 108.2675, got["readability_index"])
}

func TestRenderer_Report(t *testing.T) {
	r, err := NewRenderer(FormatText, DefaultLabels())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Report(&buf, domain.Report{Source: "docs/a.md", Result: *sampleResult()}))
	assert.True(t, strings.HasPrefix(buf.String(), "== docs/a.md ==\nSentences: 2\n"))
}

func TestRenderer_History(t *testing.T) {
	r, err := NewRenderer(FormatText, DefaultLabels())
	require.NoError(t, err)

	reports := []domain.Report{{
		ID:        "id-1",
		Source:    "a.txt",
		CreatedAt: time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC),
		Result:    *sampleResult(),
	}}

	var buf bytes.Buffer
	require.NoError(t, r.History(&buf, reports))
	assert.Equal(t, "id-1  2024-03-01 12:30:00    108.27  elementary_easy  a.txt\n", buf.String())

	jr, err := NewRenderer(FormatJSON, DefaultLabels())
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, jr.History(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}
