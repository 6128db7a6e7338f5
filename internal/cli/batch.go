package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"readscore/internal/adapter/fetch"
	"readscore/internal/adapter/fs"
	"readscore/internal/adapter/metrics"
	"readscore/internal/adapter/store"
	"readscore/internal/usecase"
)

var (
	batchForce   bool
	batchWorkers int
	batchQuiet   bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [path]",
	Short: "Analyze every text file under a directory",
	Long: `Analyze the files under a directory that match batch.includes and none of
batch.excludes, and store one report per file in the history database
(.readscore/history.db by default). Files that have not changed since their
last report are skipped unless --force is given. Reports of files that were
removed are dropped.

Examples:
  readscore batch .                 # Analyze the current directory
  readscore batch ./docs --force    # Re-analyze everything`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "re-analyze unchanged files")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "concurrent analyses (default from config)")
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "hide the progress bar")
}

func runBatch(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	if err := cfg.EnsureStoreDir(path); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	dbPath := cfg.StorePath(path)
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer st.Close()

	note, err := st.Prepare(cfg)
	if err != nil {
		return err
	}
	if note != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), note)
	}

	analyze, err := buildAnalyzer(cfg, logger, metrics.Noop{})
	if err != nil {
		return err
	}

	workers := cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}
	walker := fs.NewWalker(cfg.Batch.Includes, cfg.Batch.Excludes)
	batchUC := usecase.NewBatchUseCase(analyze, st, walker, fetch.NewFileReader(), workers)

	fmt.Fprintf(cmd.ErrOrStderr(), "Scanning %s...\n", path)

	var progress usecase.ProgressFunc
	if !batchQuiet {
		progress = newProgress(cmd)
	}

	result, err := batchUC.Run(cmd.Context(), path, batchForce, progress)
	if err != nil {
		return fmt.Errorf("batch analysis failed: %w", err)
	}

	if err := st.Migrate(cfg); err != nil {
		return fmt.Errorf("failed to update schema info: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nBatch complete:\n")
	fmt.Fprintf(out, "  Files analyzed: %d\n", result.FilesAnalyzed)
	fmt.Fprintf(out, "  Files skipped:  %d (unchanged)\n", result.FilesSkipped)
	fmt.Fprintf(out, "  Files deleted:  %d (removed)\n", result.FilesDeleted)

	if len(result.Reports) > 0 {
		var sum float64
		for _, r := range result.Reports {
			sum += r.Result.ReadabilityIndex
		}
		fmt.Fprintf(out, "  Mean index:     %.4f\n", sum/float64(len(result.Reports)))
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}

	fmt.Fprintf(out, "\nHistory stored at: %s\n", dbPath)
	return nil
}

// newProgress returns a callback that draws a progress bar with an ETA once
// the total is known.
func newProgress(cmd *cobra.Command) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	return func(processed, total int, currentFile string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Analyzing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			remaining := total - processed
			if rate > 0 {
				eta := time.Duration(float64(remaining)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Analyzing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
