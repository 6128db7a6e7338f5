package analyzer

import (
	"strings"
	"unicode"
)

const (
	ellipsis    = "…"
	terminators = ".?!…"
)

// Segmenter splits text into sentences with a punctuation-triggered split
// followed by a capitalization-based merge pass.
type Segmenter struct{}

// NewSegmenter creates a new Segmenter.
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment returns the trimmed, non-empty sentences of text in input order.
func (s *Segmenter) Segment(text string) []string {
	return mergeFalseBoundaries(splitRaw(text))
}

// splitRaw closes a sentence after every terminator rune. A three-dot
// ellipsis counts as a single terminator.
func splitRaw(text string) []string {
	text = strings.ReplaceAll(text, "...", ellipsis)

	var raw []string
	var current strings.Builder

	for _, r := range text {
		current.WriteRune(r)
		if strings.ContainsRune(terminators, r) {
			if sentence := strings.TrimSpace(current.String()); sentence != "" {
				raw = append(raw, sentence)
			}
			current.Reset()
		}
	}
	if sentence := strings.TrimSpace(current.String()); sentence != "" {
		raw = append(raw, sentence)
	}

	return raw
}

// mergeFalseBoundaries keeps a boundary only when the next raw sentence
// starts, at its first letter, with an uppercase letter. Otherwise the next
// raw sentence is appended to the current one with a single space.
func mergeFalseBoundaries(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	sentences := make([]string, 0, len(raw))
	current := raw[0]

	for _, next := range raw[1:] {
		if startsSentence(next) {
			sentences = append(sentences, current)
			current = next
		} else {
			current += " " + next
		}
	}

	return append(sentences, current)
}

// startsSentence reports whether the first letter of s is uppercase. A chunk
// without letters never starts a sentence.
func startsSentence(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return unicode.IsUpper(r)
		}
	}
	return false
}
