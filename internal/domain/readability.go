package domain

import "fmt"

// Interpretation buckets a readability index.
type Interpretation int

const (
	InterpretationHard Interpretation = iota
	InterpretationFair
	InterpretationMiddleEasy
	InterpretationElementaryEasy
)

var interpretationNames = map[Interpretation]string{
	InterpretationHard:           "hard",
	InterpretationFair:           "fair",
	InterpretationMiddleEasy:     "middle_easy",
	InterpretationElementaryEasy: "elementary_easy",
}

func (i Interpretation) String() string {
	if name, ok := interpretationNames[i]; ok {
		return name
	}
	return fmt.Sprintf("interpretation(%d)", int(i))
}

func (i Interpretation) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Interpretation) UnmarshalText(text []byte) error {
	for k, v := range interpretationNames {
		if v == string(text) {
			*i = k
			return nil
		}
	}
	return fmt.Errorf("unknown interpretation: %q", text)
}

// Coefficients of the Flesch-style reading ease formula:
// index = Base - SentenceWeight*avgSentenceLen - SyllableWeight*avgSyllablesPerWord
type Coefficients struct {
	Base           float64
	SentenceWeight float64
	SyllableWeight float64
}

// CoefficientsFor returns the formula coefficients for a language.
func CoefficientsFor(lang Language) Coefficients {
	if lang == LanguageRussian {
		return Coefficients{Base: 206.835, SentenceWeight: 1.3, SyllableWeight: 60.1}
	}
	return Coefficients{Base: 206.835, SentenceWeight: 1.015, SyllableWeight: 84.6}
}

// Readability is the scorer output.
type Readability struct {
	AvgSentenceLength   float64
	AvgSyllablesPerWord float64
	Index               float64
	Interpretation      Interpretation
}

// Score computes the readability index and its bucket. Zero sentence or
// word counts are reported as ErrDivisionByZero.
func Score(sentenceCount, wordCount, totalSyllables int, c Coefficients) (Readability, error) {
	if sentenceCount <= 0 {
		return Readability{}, fmt.Errorf("%w: sentence count is %d", ErrDivisionByZero, sentenceCount)
	}
	if wordCount <= 0 {
		return Readability{}, fmt.Errorf("%w: word count is %d", ErrDivisionByZero, wordCount)
	}

	avgSentenceLen := float64(wordCount) / float64(sentenceCount)
	avgSyllables := float64(totalSyllables) / float64(wordCount)
	index := c.Base - c.SentenceWeight*avgSentenceLen - c.SyllableWeight*avgSyllables

	return Readability{
		AvgSentenceLength:   avgSentenceLen,
		AvgSyllablesPerWord: avgSyllables,
		Index:               index,
		Interpretation:      Interpret(index),
	}, nil
}

// Interpret maps an index to a bucket. Bounds are strict, so 80, 50 and 25
// fall into the lower bucket.
func Interpret(index float64) Interpretation {
	switch {
	case index > 80:
		return InterpretationElementaryEasy
	case index > 50:
		return InterpretationMiddleEasy
	case index > 25:
		return InterpretationFair
	default:
		return InterpretationHard
	}
}
