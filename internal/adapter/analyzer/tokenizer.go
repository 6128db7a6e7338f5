package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into words: maximal runs of letters that may carry
// internal hyphens. Case is preserved and duplicates are kept.
type Tokenizer struct{}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{}
}

// Tokenize splits text into word tokens in input order.
func (t *Tokenizer) Tokenize(text string) []string {
	return splitWords(text)
}

// splitWords treats every rune that is neither a letter nor a hyphen as a
// separator. Leading and trailing hyphens are trimmed from each run, so a
// dash surrounded by spaces never becomes a token.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := strings.Trim(current.String(), "-"); word != "" {
			words = append(words, word)
		}
		current.Reset()
	}

	for _, r := range text {
		if unicode.IsLetter(r) || r == '-' {
			current.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return words
}
