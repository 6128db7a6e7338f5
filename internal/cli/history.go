package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"readscore/internal/adapter/store"
	"readscore/internal/domain"
	"readscore/internal/port"
)

var (
	historyJSON  bool
	historyLimit int
	historyYes   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored reports",
	Long: `List, show and clear the reports stored by "analyze --save", "batch" and the
HTTP API.

Examples:
  readscore history list -n 20
  readscore history show 5f0c...
  readscore history show /docs/intro.txt
  readscore history clear --yes`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored reports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id|source>",
	Short: "Print a stored report, or the latest one for a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every stored report",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd, historyClearCmd)
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "print JSON")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n reports")
	historyClearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "confirm deletion")
}

func openHistory() (*store.BoltStore, error) {
	cfg := GetConfig()
	root := GetRootDir()
	if err := cfg.EnsureStoreDir(root); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	st, err := store.NewBoltStore(cfg.StorePath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return st, nil
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	reports, err := st.ListReports()
	if err != nil {
		return err
	}
	if historyLimit > 0 && len(reports) > historyLimit {
		reports = reports[:historyLimit]
	}

	renderer, err := newRenderer(GetConfig(), historyJSON)
	if err != nil {
		return err
	}
	if len(reports) == 0 && !historyJSON {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports stored.")
		return nil
	}
	return renderer.History(cmd.OutOrStdout(), reports)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	rep, err := findReport(st, args[0])
	if err != nil {
		return err
	}

	renderer, err := newRenderer(GetConfig(), historyJSON)
	if err != nil {
		return err
	}
	return renderer.Report(cmd.OutOrStdout(), rep)
}

// findReport resolves key as a report ID, then as a source path.
func findReport(st port.ReportStore, key string) (domain.Report, error) {
	rep, err := st.GetReport(key)
	if !errors.Is(err, domain.ErrNotFound) {
		return rep, err
	}
	rep, err = st.GetReportBySource(key)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Report{}, fmt.Errorf("no report with id or source %s", key)
	}
	return rep, err
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	if _, err := st.GetReport(args[0]); err != nil {
		return err
	}
	if err := st.DeleteReport(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if !historyYes {
		return fmt.Errorf("refusing to clear the history without --yes")
	}

	st, err := openHistory()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
	return nil
}
