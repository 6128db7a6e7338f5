package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"readscore/internal/adapter/fetch"
	"readscore/internal/adapter/metrics"
	"readscore/internal/adapter/store"
	"readscore/internal/domain"
	"readscore/internal/usecase"
)

var (
	analyzeText string
	analyzeFile string
	analyzeURL  string
	analyzeJSON bool
	analyzeSave bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Print the readability and tone profile of a text",
	Long: `Analyze one text and print sentence, word and syllable counts, averages,
the readability index with its interpretation, the tone and the objectivity.

The text comes from exactly one of --text, --file, --url, the arguments or stdin.

Examples:
  readscore analyze --text "The cat sat on the mat. It was happy."
  readscore analyze --file chapter.md
  readscore analyze --url https://example.com/article --json
  echo "Привет. Как дела?" | readscore analyze`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&analyzeText, "text", "t", "", "text to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "read text from a file (HTML is reduced to its text)")
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "fetch a web page and analyze its article text")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "store the report in the history")
	analyzeCmd.MarkFlagsMutuallyExclusive("text", "file", "url")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	source, modTime, text, err := readInput(ctx, cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	uc, err := buildAnalyzer(cfg, logger, metrics.Noop{})
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg, analyzeJSON)
	if err != nil {
		return err
	}

	result, err := uc.Analyze(ctx, text)
	if err != nil {
		return describeFailure(err)
	}

	if analyzeSave {
		rep := usecase.NewReport(source, modTime, result)
		if err := saveReport(rep); err != nil {
			return err
		}
		logger.Info("report saved", "id", rep.ID)
	}

	return renderer.Result(cmd.OutOrStdout(), result)
}

// readInput resolves the single text source. It returns a source label for
// the history and the file modification time when there is one.
func readInput(ctx context.Context, stdin io.Reader, args []string) (string, time.Time, string, error) {
	cfg := GetConfig()

	sources := 0
	for _, set := range []bool{analyzeText != "", analyzeFile != "", analyzeURL != "", len(args) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return "", time.Time{}, "", fmt.Errorf("use only one of --text, --file, --url or arguments")
	}

	switch {
	case analyzeText != "":
		return "text", time.Time{}, analyzeText, nil
	case len(args) > 0:
		return "text", time.Time{}, strings.Join(args, " "), nil
	case analyzeFile != "":
		path, err := filepath.Abs(analyzeFile)
		if err != nil {
			return "", time.Time{}, "", fmt.Errorf("invalid path: %w", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			return "", time.Time{}, "", err
		}
		text, err := fetch.NewFileReader().ReadFile(path)
		if err != nil {
			return "", time.Time{}, "", err
		}
		return path, info.ModTime(), text, nil
	case analyzeURL != "":
		text, err := fetch.NewURLFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBodyBytes).Fetch(ctx, analyzeURL)
		if err != nil {
			return "", time.Time{}, "", err
		}
		return analyzeURL, time.Time{}, text, nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", time.Time{}, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "stdin", time.Time{}, string(data), nil
	}
}

func saveReport(rep domain.Report) error {
	cfg := GetConfig()
	root := GetRootDir()

	if err := cfg.EnsureStoreDir(root); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	st, err := store.NewBoltStore(cfg.StorePath(root))
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer st.Close()

	note, err := st.Prepare(cfg)
	if err != nil {
		return err
	}
	if note != "" {
		logger.Warn(note)
	}
	return st.PutReport(rep)
}

// describeFailure adds a hint for the failures users can fix themselves.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return fmt.Errorf("%w (the text needs at least one word)", err)
	case errors.Is(err, domain.ErrTranslationDisabled):
		return fmt.Errorf("%w (set translation.provider to analyze the tone of non-English text)", err)
	}
	return err
}
