package analyzer

import (
	"strings"

	"readscore/internal/domain"
	"readscore/internal/port"
)

const (
	englishVowels = "aeiouy"
	russianVowels = "аеёиоуыэюя"
)

// EnglishSyllables counts vowel groups, drops a silent final "e" and never
// returns less than 1. It is the default for every non-Russian language.
type EnglishSyllables struct{}

func (EnglishSyllables) Count(word string) int {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return 1
	}

	count := 0
	if isVowel(runes[0], englishVowels) {
		count++
	}
	for i := 1; i < len(runes); i++ {
		if isVowel(runes[i], englishVowels) && !isVowel(runes[i-1], englishVowels) {
			count++
		}
	}

	if runes[len(runes)-1] == 'e' && count > 1 {
		count--
	}

	return max(1, count)
}

// RussianSyllables counts every vowel letter. Unlike the English counter it
// has no floor, so a word without Russian vowels counts 0.
type RussianSyllables struct{}

func (RussianSyllables) Count(word string) int {
	count := 0
	for _, r := range strings.ToLower(word) {
		if isVowel(r, russianVowels) {
			count++
		}
	}
	return count
}

func isVowel(r rune, vowels string) bool {
	return strings.ContainsRune(vowels, r)
}

// Profile bundles the per-language strategies. It is selected once per
// analysis from the detected language.
type Profile struct {
	Language     domain.Language
	Syllables    port.SyllableCounter
	Coefficients domain.Coefficients
}

// ProfileFor returns the strategies for a language.
func ProfileFor(lang domain.Language) Profile {
	var counter port.SyllableCounter = EnglishSyllables{}
	if lang == domain.LanguageRussian {
		counter = RussianSyllables{}
	}
	return Profile{
		Language:     lang,
		Syllables:    counter,
		Coefficients: domain.CoefficientsFor(lang),
	}
}

// CountSyllables sums the syllables of all words.
func (p Profile) CountSyllables(words []string) int {
	total := 0
	for _, w := range words {
		total += p.Syllables.Count(w)
	}
	return total
}
