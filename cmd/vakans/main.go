/*
main.go - Application entry point

PURPOSE:
  Command-line entry for the vacancy engine: the HTTP server and offline
  tools that share the same engine and calendar handling.

COMMANDS:
  serve     HTTP API with graceful shutdown
  compute   One batch from files, JSON on stdout
  calendar  Add or remove dates in a YAML calendar file

SERVE STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Initialize store (SQLite, or in-memory when no path is set)
  3. Seed the holiday calendar from VAKANS_CALENDAR_PATH
  4. Configure HTTP router and retention scheduler
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the retention scheduler
  4. Close database connection

EXAMPLES:
  vakans serve --db ./data/vakans.db --calendar ./config.yaml
  vakans compute --calendar ./config.yaml --input batch.json --summary
  vakans calendar add --file ./config.yaml --major 2026-12-25

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warp/vacancy-engine/api"
	"github.com/warp/vacancy-engine/config"
	"github.com/warp/vacancy-engine/factory"
	"github.com/warp/vacancy-engine/logging"
	"github.com/warp/vacancy-engine/sickpay"
	"github.com/warp/vacancy-engine/store/memory"
	"github.com/warp/vacancy-engine/store/sqlite"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "vakans",
	Short: "Vacant sick-leave karens and OB segmentation engine",
	Long:  "Splits vacant sick-leave intervals into OB classified segments and tracks the karens waiting-period deduction per person.",
}

var (
	servePort     int
	serveDB       string
	serveCalendar string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (overrides VAKANS_HTTP_PORT)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (overrides VAKANS_DB_PATH)")
	serveCmd.Flags().StringVar(&serveCalendar, "calendar", "", "YAML calendar seeded at startup (overrides VAKANS_CALENDAR_PATH)")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it).
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

// storeCloser is a store the process owns and must close.
type storeCloser interface {
	sickpay.Store
	io.Closer
}

type memoryStore struct{ *memory.Memory }

func (memoryStore) Close() error { return nil }

func openStore(path string) (storeCloser, error) {
	if path == "" {
		return memoryStore{memory.New()}, nil
	}
	return sqlite.New(path)
}

// seedCalendar loads a YAML calendar file into the store.
func seedCalendar(ctx context.Context, store sickpay.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read calendar: %w", err)
	}
	_, holidays, err := factory.ParseCalendarYAML(data)
	if err != nil {
		return 0, fmt.Errorf("parse calendar %s: %w", path, err)
	}
	for _, h := range holidays {
		if err := store.SaveHoliday(ctx, h); err != nil {
			return 0, fmt.Errorf("save holiday %s: %w", h.Date, err)
		}
	}
	return len(holidays), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if servePort != 0 {
		cfg.HTTPPort = servePort
	}
	if serveDB != "" {
		cfg.DBPath = serveDB
	}
	if serveCalendar != "" {
		cfg.CalendarPath = serveCalendar
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info().Str("env", cfg.Environment).Msg("vacancy engine starting")

	store, err := openStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer store.Close()
	if cfg.DBPath == "" {
		logger.Warn().Msg("no database path set, calculations are kept in memory only")
	}

	if cfg.CalendarPath != "" {
		n, err := seedCalendar(context.Background(), store, cfg.CalendarPath)
		if err != nil {
			return err
		}
		logger.Info().Int("holidays", n).Str("path", cfg.CalendarPath).Msg("calendar seeded")
	}

	engine := sickpay.NewEngine(logger.With().Str("component", "engine").Logger())
	engine.Workers = cfg.Workers

	handler := api.NewHandler(store, engine, logger.With().Str("component", "api").Logger())
	router := api.NewRouter(handler, nil)

	retention := api.NewRetentionScheduler(store, cfg.RunRetention, logger.With().Str("component", "retention").Logger())
	retention.CheckInterval = cfg.RetentionInterval
	retention.Start()
	defer retention.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.Addr()).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return nil
}
