package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"readscore/config"
	"readscore/internal/adapter/analyzer"
	"readscore/internal/adapter/fetch"
	"readscore/internal/adapter/fs"
	"readscore/internal/adapter/langdetect"
	"readscore/internal/adapter/sentiment"
	"readscore/internal/domain"
	"readscore/internal/port"
	"readscore/internal/usecase"
)

type sample struct {
	path   string
	result *domain.Result
}

func main() {
	dir := flag.String("dir", ".", "Directory with text files")
	rounds := flag.Int("n", 5, "Passes over the corpus")
	lang := flag.String("lang", "", "Fix the language code instead of detecting it")
	flag.Parse()

	cfg, err := config.LoadFromDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	files, err := fs.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes).Walk(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", *dir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("Usage: go run ./cmd/benchmark -dir ./corpus [-n 5] [-lang en]")
		fmt.Println("\nMeasures the offline pipeline (no translation, lexicon sentiment):")
		fmt.Println("  1. Throughput of segmentation, tokenization and scoring")
		fmt.Println("  2. Distribution of readability buckets and tones")
		os.Exit(1)
	}

	reader := fetch.NewFileReader()
	texts := make(map[string]string, len(files))
	var totalBytes int64
	for _, f := range files {
		text, err := reader.ReadFile(f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %v\n", f.Path, err)
			continue
		}
		texts[f.Path] = text
		totalBytes += int64(len(text))
	}

	var detector port.LanguageDetector = langdetect.NewWhatlangDetector()
	if *lang != "" {
		detector = langdetect.NewFixedDetector(*lang)
	}
	lexicon, err := sentiment.NewLexicon()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading lexicon: %v\n", err)
		os.Exit(1)
	}

	codes := usecase.LanguageCodes{English: cfg.Language.EnglishCode, Russian: cfg.Language.RussianCode}
	uc := usecase.NewAnalyzeUseCase(analyzer.NewTokenizer(), analyzer.NewSegmenter(), detector,
		englishOnly{}, lexicon, codes)

	fmt.Println("READABILITY PIPELINE BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Files: %d (%.1f KB)\n", len(texts), float64(totalBytes)/1024)
	fmt.Printf("Passes: %d\n\n", *rounds)

	ctx := context.Background()
	var samples []sample
	failures := 0
	start := time.Now()
	for i := 0; i < *rounds; i++ {
		for path, text := range texts {
			result, err := uc.Analyze(ctx, text)
			if i > 0 {
				continue
			}
			if err != nil {
				failures++
				fmt.Printf("  FAIL %s: %v\n", shortPath(path), err)
				continue
			}
			samples = append(samples, sample{path: path, result: result})
		}
	}
	elapsed := time.Since(start)

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].result.ReadabilityIndex > samples[j].result.ReadabilityIndex
	})

	fmt.Printf("%-32s %6s %6s %9s  %-16s %s\n", "FILE", "SENT", "WORDS", "INDEX", "BUCKET", "TONE")
	fmt.Println(strings.Repeat("-", 70))
	buckets := make(map[domain.Interpretation]int)
	tones := make(map[domain.Tone]int)
	var indexSum float64
	for _, s := range samples {
		r := s.result
		fmt.Printf("%-32s %6d %6d %9.2f  %-16s %s\n", shortPath(s.path), r.SentenceCount, r.WordCount,
			r.ReadabilityIndex, r.Interpretation, r.Tone)
		buckets[r.Interpretation]++
		tones[r.Tone]++
		indexSum += r.ReadabilityIndex
	}

	runs := float64(len(texts) * *rounds)
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("PERFORMANCE:\n")
	fmt.Printf("  Total time:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Per analysis:   %s\n", time.Duration(float64(elapsed)/runs).Round(time.Microsecond))
	fmt.Printf("  Throughput:     %.1f MB/s\n", float64(totalBytes)*float64(*rounds)/elapsed.Seconds()/(1<<20))
	fmt.Printf("\nCORPUS:\n")
	if len(samples) > 0 {
		fmt.Printf("  Mean index:     %.4f\n", indexSum/float64(len(samples)))
	}
	for _, b := range []domain.Interpretation{
		domain.InterpretationElementaryEasy, domain.InterpretationMiddleEasy,
		domain.InterpretationFair, domain.InterpretationHard,
	} {
		fmt.Printf("  %-16s %d\n", b.String()+":", buckets[b])
	}
	fmt.Printf("  Tones:          %d positive, %d neutral, %d negative\n",
		tones[domain.TonePositive], tones[domain.ToneNeutral], tones[domain.ToneNegative])
	if failures > 0 {
		fmt.Printf("  Failures:       %d\n", failures)
	}
}

// englishOnly passes text through so non-English files are scored offline.
type englishOnly struct{}

func (englishOnly) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

func shortPath(path string) string {
	base := filepath.Base(path)
	if len(base) > 32 {
		return base[:29] + "..."
	}
	return base
}
