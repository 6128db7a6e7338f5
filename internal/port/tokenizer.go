package port

// Tokenizer splits text into word tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Segmenter splits text into sentences.
type Segmenter interface {
	Segment(text string) []string
}

// SyllableCounter estimates the syllables in a single word.
type SyllableCounter interface {
	Count(word string) int
}
