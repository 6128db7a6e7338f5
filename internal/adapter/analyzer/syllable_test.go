package analyzer

import (
	"testing"

	"readscore/internal/domain"
)

func TestEnglishSyllables_Count(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"cake", 1},
		{"hello", 2},
		{"happy", 2},
		{"the", 1},
		{"a", 1},
		{"rhythm", 1},
		{"Apple", 1},
		{"readable", 2},
		{"yellow", 2},
		{"Well-known", 2},
		// Consecutive vowels collapse into one group, then the floor applies.
		{"queue", 1},
		{"eye", 1},
		{"bcd", 1},
		{"", 1},
	}

	counter := EnglishSyllables{}
	for _, tt := range tests {
		if got := counter.Count(tt.word); got != tt.want {
			t.Errorf("EnglishSyllables.Count(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestRussianSyllables_Count(t *testing.T) {
	tests := []struct {
		word string
		want int
	}{
		{"привет", 2},
		{"Ёлка", 2},
		{"МОЛОКО", 3},
		{"здравствуйте", 3},
		// No vowel-set letters and no floor: this counts 0 syllables.
		{"вдх", 0},
		{"hello", 0},
	}

	counter := RussianSyllables{}
	for _, tt := range tests {
		if got := counter.Count(tt.word); got != tt.want {
			t.Errorf("RussianSyllables.Count(%q) = %d, want %d", tt.word, got, tt.want)
		}
	}
}

func TestProfileFor(t *testing.T) {
	ru := ProfileFor(domain.LanguageRussian)
	if _, ok := ru.Syllables.(RussianSyllables); !ok {
		t.Errorf("expected russian counter, got %T", ru.Syllables)
	}
	if ru.Coefficients.SentenceWeight != 1.3 || ru.Coefficients.SyllableWeight != 60.1 {
		t.Errorf("unexpected russian coefficients: %+v", ru.Coefficients)
	}

	en := ProfileFor(domain.LanguageEnglish)
	if _, ok := en.Syllables.(EnglishSyllables); !ok {
		t.Errorf("expected english counter, got %T", en.Syllables)
	}
	if en.Coefficients.SentenceWeight != 1.015 || en.Coefficients.SyllableWeight != 84.6 {
		t.Errorf("unexpected english coefficients: %+v", en.Coefficients)
	}
}

func TestProfile_CountSyllables(t *testing.T) {
	words := NewTokenizer().Tokenize("The cat sat on the mat. It was happy.")
	if got := ProfileFor(domain.LanguageEnglish).CountSyllables(words); got != 10 {
		t.Errorf("expected 10 syllables, got %d", got)
	}

	words = NewTokenizer().Tokenize("Привет, мир!")
	if got := ProfileFor(domain.LanguageRussian).CountSyllables(words); got != 3 {
		t.Errorf("expected 3 syllables, got %d", got)
	}
}
