package report

import (
	"fmt"

	"readscore/internal/domain"
)

// Labels maps section keys and enum names to display strings.
type Labels map[string]string

// DefaultLabels returns the built-in English labels. Enum values are keyed
// by their String form.
func DefaultLabels() Labels {
	return Labels{
		"sentences":              "Sentences:",
		"words":                  "Words:",
		"syllables":              "Syllables:",
		"avg_sentence_length":    "Average sentence length:",
		"avg_syllables_per_word": "Average syllables per word:",
		"readability_index":      "Readability index:",
		"tone":                   "Tone:",
		"objectivity":            "Objectivity:",

		domain.InterpretationElementaryEasy.String(): "Very easy to read, suitable for elementary school.",
		domain.InterpretationMiddleEasy.String():     "Easy to read, suitable for middle school.",
		domain.InterpretationFair.String():           "Fairly difficult to read.",
		domain.InterpretationHard.String():           "Hard to read.",

		domain.TonePositive.String(): "positive",
		domain.ToneNegative.String(): "negative",
		domain.ToneNeutral.String():  "neutral",
	}
}

// Merge returns a copy of l with overrides applied. Unknown keys are
// rejected so typos in configuration surface early.
func (l Labels) Merge(overrides map[string]string) (Labels, error) {
	out := make(Labels, len(l))
	for k, v := range l {
		out[k] = v
	}
	for k, v := range overrides {
		if _, ok := l[k]; !ok {
			return nil, fmt.Errorf("unknown label key %q", k)
		}
		out[k] = v
	}
	return out, nil
}

// Get falls back to the key itself when no label is defined.
func (l Labels) Get(key string) string {
	if v, ok := l[key]; ok {
		return v
	}
	return key
}
