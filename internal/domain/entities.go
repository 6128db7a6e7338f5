package domain

import "time"

// Language selects the syllable heuristic and readability coefficients.
// It is derived once from the detected language code and threaded through
// the pipeline.
type Language int

const (
	// LanguageEnglish is the default for every code other than Russian.
	LanguageEnglish Language = iota
	LanguageRussian
)

func (l Language) String() string {
	switch l {
	case LanguageRussian:
		return "russian"
	default:
		return "english"
	}
}

// LanguageFor maps a detected language code to a Language tag.
func LanguageFor(code, russianCode string) Language {
	if code == russianCode {
		return LanguageRussian
	}
	return LanguageEnglish
}

// Sentiment is the output of a sentiment scorer.
type Sentiment struct {
	Polarity     float64 `json:"polarity"`     // [-1, 1]
	Subjectivity float64 `json:"subjectivity"` // [0, 1]
}

// Objectivity returns 100 - subjectivity%.
func (s Sentiment) Objectivity() float64 {
	return 100 - s.Subjectivity*100
}

// Result is the analysis aggregate. It is built once at the end of the
// pipeline and never mutated.
type Result struct {
	SentenceCount       int            `json:"sentence_count"`
	WordCount           int            `json:"word_count"`
	TotalSyllables      int            `json:"total_syllables"`
	AvgSentenceLength   float64        `json:"avg_sentence_length"`
	AvgSyllablesPerWord float64        `json:"avg_syllables_per_word"`
	ReadabilityIndex    float64        `json:"readability_index"`
	Interpretation      Interpretation `json:"interpretation"`
	Tone                Tone           `json:"tone"`
	ObjectivityPercent  float64        `json:"objectivity_percent"`
	LanguageCode        string         `json:"language_code"`
	Language            Language       `json:"-"`
	Sentiment           Sentiment      `json:"sentiment"`
	Translated          bool           `json:"translated"`
}

// Report is a stored analysis with its provenance.
type Report struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	ModTime   time.Time `json:"mod_time,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Result    Result    `json:"result"`
}
