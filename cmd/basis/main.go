package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/basis"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/config"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/database"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/syncer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting basis loader",
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
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected",
		"host", cfg.Database.Host,
		"database", cfg.Database.Name,
	)

	client := basis.NewClient(cfg.Basis.BaseURL,
		basis.WithTimeout(cfg.Basis.Timeout),
		basis.WithLogger(logger),
	)
	store := basis.NewStore(pool, logger)

	// One contract family failing must not block the rest; report at the end.
	failures := 0
	for _, contract := range cfg.Basis.Contracts {
		log := logger.With("contract", contract)

		records, err := client.Fetch(ctx, contract)
		if err != nil {
			log.Error("fetch failed", "error", err)
			failures++
			continue
		}
		if len(records) == 0 {
			log.Warn("upstream returned no rows, keeping existing table")
			continue
		}

		if err := store.Replace(ctx, contract, records); err != nil {
			log.Error("replace failed", "error", err)
			failures++
			continue
		}
		log.Info("contract updated", "rows", len(records))
	}

	if failures > 0 {
		logger.Error("basis run had failures", "failed", failures)
		os.Exit(1)
	}
	logger.Info("basis run complete", "contracts", len(cfg.Basis.Contracts))
}
