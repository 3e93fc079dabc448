package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/calendar"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/config"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/database"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/provider"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/registry"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/sink"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/syncer"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/syncer.local.yaml", "path to config file")
	force := flag.Bool("force", false, "run even on non-trading days")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting syncer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"data_table", cfg.Sync.DataTable,
		"registry_table", cfg.Sync.RegistryTable,
		"concurrency", cfg.Sync.Concurrency,
	)

	// Load the holiday calendar
	holidays, err := calendar.Load(cfg.Sync.HolidayFile)
	if err != nil {
		logger.Error("failed to load holiday file", "error", err, "path", cfg.Sync.HolidayFile)
		os.Exit(1)
	}
	logger.Info("holiday calendar loaded", "holidays", len(holidays))

	// Daily batch job: nothing new can exist on a non-trading day, so skip
	// the run entirely unless forced.
	today := time.Now().UTC()
	if !calendar.IsTradingDay(today, holidays) && !*force {
		logger.Info("today is not a trading day, skipping run",
			"date", today.Format(model.DateLayout),
		)
		return
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Series registry and watermark store
	store, err := registry.NewStore(pool, cfg.Sync.RegistryTable, logger)
	if err != nil {
		logger.Error("failed to create registry store", "error", err)
		os.Exit(1)
	}

	series, err := store.LoadSeries(ctx)
	if err != nil {
		logger.Error("failed to load series registry", "error", err)
		os.Exit(1)
	}
	if len(series) == 0 {
		logger.Warn("series registry is empty, nothing to sync")
		return
	}
	logger.Info("series registry loaded", "series", len(series))

	// Append-only data sink
	dataSink, err := sink.NewPostgres(pool, cfg.Sync.DataTable, logger)
	if err != nil {
		logger.Error("failed to create sink", "error", err)
		os.Exit(1)
	}

	// Provider adapters
	adapters := []provider.Adapter{
		provider.NewExchange(cfg.Providers.Exchange.BaseURL,
			provider.WithTimeout(cfg.Providers.Exchange.Timeout),
			provider.WithLogger(logger)),
		provider.NewWind(cfg.Providers.Wind.BaseURL,
			provider.WithTimeout(cfg.Providers.Wind.Timeout),
			provider.WithLogger(logger)),
		provider.NewCSI(cfg.Providers.CSI.BaseURL,
			provider.WithTimeout(cfg.Providers.CSI.Timeout),
			provider.WithLogger(logger)),
		provider.NewCNI(cfg.Providers.CNI.BaseURL,
			provider.WithTimeout(cfg.Providers.CNI.Timeout),
			provider.WithLogger(logger)),
	}

	engine := syncer.New(
		syncer.Config{Concurrency: cfg.Sync.Concurrency},
		adapters,
		dataSink,
		store,
		holidays,
		logger,
	)

	report := engine.Run(ctx, series)

	for code, outcome := range report.Outcomes {
		if outcome.Err != nil {
			logger.Error("series outcome",
				"code", code,
				"status", string(outcome.Status),
				"error", outcome.Err,
			)
			continue
		}
		logger.Info("series outcome",
			"code", code,
			"status", string(outcome.Status),
			"rows", outcome.RowsWritten,
		)
	}

	if report.HasFailures() {
		logger.Error("sync run had failures",
			"failed", report.Count(syncer.StatusFailed),
			"write_failed", report.Count(syncer.StatusWriteFailed),
		)
		os.Exit(1)
	}

	logger.Info("sync run complete",
		"updated", report.Count(syncer.StatusUpdated),
		"duration", report.Finished.Sub(report.Started),
	)
}
