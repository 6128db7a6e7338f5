package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"readscore/config"
	"readscore/internal/adapter/httpapi"
	"readscore/internal/adapter/memstore"
	"readscore/internal/adapter/metrics"
	"readscore/internal/domain"
	"readscore/internal/port"
	"readscore/internal/usecase"
)

var (
	serveAddr    string
	serveHistory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve analyses over HTTP",
	Long: `Run an HTTP server exposing:

  POST /v1/analyze      {"text": "...", "source": "...", "save": false}
  GET  /v1/reports      stored reports (in memory unless --history)
  GET  /v1/reports/{id}
  GET  /healthz
  GET  /metrics         Prometheus metrics

Examples:
  readscore serve --addr :9000
  readscore serve --history`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveHistory, "history", false, "keep saved reports in the history database instead of memory")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	prom := metrics.NewPrometheus()
	analyze, err := buildAnalyzer(cfg, logger, prom)
	if err != nil {
		return err
	}

	opts := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithMetrics(prom.Handler(), prom),
		httpapi.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	}

	st, err := openServeStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	opts = append(opts, httpapi.WithStore(st, func(source string, result *domain.Result) domain.Report {
		return usecase.NewReport(source, time.Time{}, result)
	}))

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewServer(analyze, opts...).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("server listening", "addr", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Listening on %s\n", addr)

	return httpapi.ListenAndServe(cmd.Context(), srv, 10*time.Second)
}

// openServeStore opens the history database with --history. Without it,
// saved reports live in memory until the server stops.
func openServeStore(cfg *config.Config) (port.ReportStore, error) {
	if !serveHistory {
		return memstore.NewMemoryStore(), nil
	}

	st, err := openHistory()
	if err != nil {
		return nil, err
	}
	note, err := st.Prepare(cfg)
	if err != nil {
		st.Close()
		return nil, err
	}
	if note != "" {
		logger.Warn(note)
	}
	return st, nil
}
