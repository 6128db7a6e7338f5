package sentiment

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/tsawler/prose"
	"readscore/internal/domain"
	"readscore/internal/port"
)

//go:embed lexicon.tsv
var lexiconData string

//go:embed intensifiers.tsv
var intensifierData string

// negationWindow is how many words before an assessed word are checked for
// a negation.
const negationWindow = 3

// negationFactor flips and dampens the polarity of a negated word.
const negationFactor = -0.5

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "nothing": true,
	"nobody": true, "neither": true, "nor": true, "without": true,
}

type entry struct {
	polarity     float64
	subjectivity float64
}

// wordSource backs the embedded table for words it does not list.
type wordSource interface {
	GetSentiment(word string) float64
	IsNegation(word string) bool
	GetModifierStrength(word string) float64
}

// Lexicon scores English text from a word list. Each known word contributes
// an assessment, modified by a preceding intensifier and any negation just
// before it; the text's scores are the means of those assessments.
//
// The embedded table carries polarity and subjectivity pairs. Words missing
// from it are looked up in the prose sentiment lexicon, whose scores carry
// polarity only, so their subjectivity is derived from the polarity strength.
type Lexicon struct {
	words        map[string]entry
	intensifiers map[string]float64
	fallback     wordSource
}

// NewLexicon builds the default English analyzer: the embedded table backed
// by the prose English lexicon.
func NewLexicon() (*Lexicon, error) {
	return newLexicon(prose.LoadSentimentLexicon(prose.English))
}

// newLexicon loads the embedded table. A nil fallback restricts scoring to
// the table.
func newLexicon(fallback wordSource) (*Lexicon, error) {
	words := make(map[string]entry)
	err := parseTSV(lexiconData, 3, func(f []string, vals []float64) {
		words[f[0]] = entry{polarity: vals[0], subjectivity: vals[1]}
	})
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}

	intensifiers := make(map[string]float64)
	err = parseTSV(intensifierData, 2, func(f []string, vals []float64) {
		intensifiers[f[0]] = vals[0]
	})
	if err != nil {
		return nil, fmt.Errorf("intensifiers: %w", err)
	}

	return &Lexicon{words: words, intensifiers: intensifiers, fallback: fallback}, nil
}

func parseTSV(data string, columns int, fn func(fields []string, values []float64)) error {
	scanner := bufio.NewScanner(strings.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != columns {
			return fmt.Errorf("line %d: expected %d columns, got %d", line, columns, len(fields))
		}
		values := make([]float64, 0, columns-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			values = append(values, v)
		}
		fn(fields, values)
	}
	return scanner.Err()
}

func (l *Lexicon) Analyze(ctx context.Context, text string) (domain.Sentiment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Sentiment{}, err
	}

	words := lowerWords(text)
	var polarity, subjectivity float64
	var n int

	for i, w := range words {
		e, ok := l.lookup(w)
		if !ok {
			continue
		}

		p, s := e.polarity, e.subjectivity
		if i > 0 {
			if mult, ok := l.modifier(words[i-1]); ok {
				p = clamp(p*mult, -1, 1)
				s = clamp(s*mult, 0, 1)
			}
		}
		if l.negated(words, i) {
			p *= negationFactor
		}

		polarity += p
		subjectivity += s
		n++
	}

	if n == 0 {
		return domain.Sentiment{}, nil
	}
	return domain.Sentiment{
		Polarity:     polarity / float64(n),
		Subjectivity: subjectivity / float64(n),
	}, nil
}

func (l *Lexicon) lookup(w string) (entry, bool) {
	if e, ok := l.words[w]; ok {
		return e, true
	}
	if l.fallback == nil || l.isNegation(w) {
		return entry{}, false
	}
	p := clamp(l.fallback.GetSentiment(w), -1, 1)
	if p == 0 {
		return entry{}, false
	}
	return entry{polarity: p, subjectivity: 0.5 + math.Abs(p)/2}, true
}

// modifier returns the multiplier w applies to the next word's assessment.
func (l *Lexicon) modifier(w string) (float64, bool) {
	if mult, ok := l.intensifiers[w]; ok {
		return mult, true
	}
	if l.fallback == nil {
		return 0, false
	}
	if strength := l.fallback.GetModifierStrength(w); strength != 0 {
		return 1 + strength, true
	}
	return 0, false
}

func (l *Lexicon) isNegation(w string) bool {
	if negations[w] || strings.HasSuffix(w, "n't") {
		return true
	}
	return l.fallback != nil && l.fallback.IsNegation(w)
}

func (l *Lexicon) negated(words []string, i int) bool {
	start := i - negationWindow
	if start < 0 {
		start = 0
	}
	for _, w := range words[start:i] {
		if l.isNegation(w) {
			return true
		}
	}
	return false
}

// lowerWords splits on anything that is not a letter or an apostrophe so
// contractions like "isn't" stay whole.
func lowerWords(text string) []string {
	text = strings.ReplaceAll(text, "’", "'")
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var _ port.SentimentAnalyzer = (*Lexicon)(nil)
