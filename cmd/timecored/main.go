/*
main.go - Application entry point

PURPOSE:
  Starts the timecore daemon. Handles configuration, dependency injection,
  and graceful shutdown.

COMMANDS:
  timecored serve    Run the HTTP API server
  timecored scan     Run a one-shot problem scan over all employees

STARTUP SEQUENCE (serve):
  1. Load configuration (TOML file + env overrides)
  2. Initialize SQLite store
  3. Create holiday cache backed by the Swiss catalog
  4. Configure HTTP router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  timecored serve --db=./data/timecore.db

  # Run with in-memory database
  timecored serve --db=:memory:

  # Print problem days for every employee
  timecored scan --db=./data/timecore.db

SEE ALSO:
  - api/server.go: Router configuration
  - config: Configuration layers
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stechuhr/timecore/api"
	"github.com/stechuhr/timecore/config"
	"github.com/stechuhr/timecore/engine"
	"github.com/stechuhr/timecore/engine/holidaycache"
	"github.com/stechuhr/timecore/store/sqlite"
	"github.com/stechuhr/timecore/swiss"
)

var (
	flagConfig string
	flagDB     string
	flagPort   int
)

func main() {
	root := &cobra.Command{
		Use:   "timecored",
		Short: "Employee time-accounting reconciliation daemon",
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to timecore.toml")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (overrides config)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (overrides config)")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Run a one-shot problem scan over all employees",
		RunE:  runScan,
	}

	root.AddCommand(serveCmd, scanCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup wires the shared dependencies of both commands.
func setup() (config.Config, *logrus.Logger, *sqlite.Store, *holidaycache.Cache, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, nil, nil, nil, err
	}
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return config.Config{}, nil, nil, nil, fmt.Errorf("initialize database: %w", err)
	}

	return cfg, log, store, holidaycache.New(swiss.Holidays), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, store, holidays, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	handler := api.NewHandler(store, holidays, log)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	// Serve in background so the main goroutine can wait on signals.
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"port": cfg.Port,
			"db":   cfg.DBPath,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// runScan prints the problem report of every employee. Intended for cron.
func runScan(cmd *cobra.Command, _ []string) error {
	_, log, store, holidays, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return err
	}

	today := engine.Today()
	for _, emp := range employees {
		from := engine.MaxDay(emp.Config.EffectiveFrom, emp.JoinedAt)
		if from.IsZero() {
			from = today.AddMonths(-1)
		}

		hd, err := holidays.HolidaysInRange(emp.Canton, from, today)
		if err != nil {
			return err
		}
		summaries, err := store.SummariesInRange(ctx, emp.ID, from, today)
		if err != nil {
			return err
		}
		vacations, err := store.ListVacations(ctx, emp.ID)
		if err != nil {
			return err
		}
		sickLeaves, err := store.ListSickLeaves(ctx, emp.ID)
		if err != nil {
			return err
		}
		options, err := store.HolidayOptions(ctx, emp.ID)
		if err != nil {
			return err
		}

		report := engine.ScanProblems(engine.ScanInput{
			Config:            emp.Config,
			DefaultDailyHours: emp.DefaultDailyHours,
			Summaries:         summaries,
			Vacations:         vacations,
			SickLeaves:        sickLeaves,
			Holidays:          hd,
			Options:           options,
			JoinedAt:          emp.JoinedAt,
			Today:             today,
		})

		log.WithFields(logrus.Fields{
			"employee_id": emp.ID,
			"name":        emp.Name,
			"problems":    len(report.Days),
		}).Info("scan complete")
		for _, day := range report.Days {
			fmt.Printf("%s\t%s\t%s\n", emp.ID, day.Date, day.Tag)
		}
	}
	return nil
}
