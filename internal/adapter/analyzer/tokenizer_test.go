package analyzer

import (
	"testing"
	"unicode"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizer_Tokenize(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("Well-known, it's fine - really.")
	want := []string{"Well-known", "it", "s", "fine", "really"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_KeepsDuplicatesAndOrder(t *testing.T) {
	tok := NewTokenizer()

	tokens := tok.Tokenize("the cat and the hat")
	want := []string{"the", "cat", "and", "the", "hat"}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer()

	for _, input := range []string{"", "   ", "123 456!", " - -- ---", "$5.00"} {
		if tokens := tok.Tokenize(input); len(tokens) != 0 {
			t.Errorf("expected 0 tokens for %q, got %v", input, tokens)
		}
	}
}

func TestTokenizer_WordShape(t *testing.T) {
	tok := NewTokenizer()

	inputs := []string{
		"-leading and trailing- hyphens",
		"A -- B --- c-d-e",
		"Привет, мир! Как дела - хорошо?",
		"x-ray 3-d e-mail\tnew\nline",
		"-",
	}

	for _, input := range inputs {
		for _, word := range tok.Tokenize(input) {
			if word == "" {
				t.Errorf("empty token from %q", input)
				continue
			}
			runes := []rune(word)
			if runes[0] == '-' || runes[len(runes)-1] == '-' {
				t.Errorf("token %q from %q has an outer hyphen", word, input)
			}
			for _, r := range runes {
				if !unicode.IsLetter(r) && r != '-' {
					t.Errorf("token %q from %q has non-letter %q", word, input, r)
				}
			}
		}
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"hello_world", 2},
		{"hello-world", 1},
		{"func(x, y)", 3},
		{"CamelCase", 1},
		{"123numbers456", 1},
		{"one - two", 2},
		{"Привет мир", 2},
		{"don't", 2},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}
