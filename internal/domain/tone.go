package domain

import "fmt"

// Tone is a coarse three-way sentiment bucket.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
)

const toneThreshold = 0.1

var toneNames = map[Tone]string{
	ToneNeutral:  "neutral",
	TonePositive: "positive",
	ToneNegative: "negative",
}

func (t Tone) String() string {
	if name, ok := toneNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tone(%d)", int(t))
}

func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tone) UnmarshalText(text []byte) error {
	for k, v := range toneNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown tone: %q", text)
}

// ClassifyTone buckets a polarity. The band [-0.1, 0.1] is neutral.
func ClassifyTone(polarity float64) Tone {
	switch {
	case polarity > toneThreshold:
		return TonePositive
	case polarity < -toneThreshold:
		return ToneNegative
	default:
		return ToneNeutral
	}
}
