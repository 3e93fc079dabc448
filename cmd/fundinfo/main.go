package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Euclid-Jie/UpdateData2Sql/internal/config"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/database"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/fundinfo"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/model"
	"github.com/Euclid-Jie/UpdateData2Sql/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/syncer.local.yaml", "path to config file")
	sinceFlag := flag.String("since", "", "fetch filings put on record since this date (YYYY-MM-DD, default today)")
	keyword := flag.String("keyword", "", "narrow the registry query to a manager or fund keyword")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting fundinfo loader",
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

	// Default window: filings recorded today.
	since := model.Day(time.Now().UTC())
	if *sinceFlag != "" {
		since, err = time.Parse(model.DateLayout, *sinceFlag)
		if err != nil {
			logger.Error("invalid -since date", "error", err, "value", *sinceFlag)
			os.Exit(1)
		}
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

	client := fundinfo.NewClient(cfg.FundInfo.BaseURL,
		fundinfo.WithTimeout(cfg.FundInfo.Timeout),
		fundinfo.WithPageSize(cfg.FundInfo.PageSize),
		fundinfo.WithLogger(logger),
	)

	store, err := fundinfo.NewStore(pool, cfg.FundInfo.RawTable, logger)
	if err != nil {
		logger.Error("failed to create filings store", "error", err)
		os.Exit(1)
	}

	logger.Info("fetching filings",
		"since", since.Format(model.DateLayout),
		"keyword", *keyword,
	)

	filings, err := client.FetchSince(ctx, *keyword, since)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		os.Exit(1)
	}
	if len(filings) == 0 {
		logger.Info("no new filings")
		return
	}

	inserted, err := store.Append(ctx, filings)
	if err != nil {
		logger.Error("append failed", "error", err)
		os.Exit(1)
	}

	logger.Info("fundinfo run complete",
		"fetched", len(filings),
		"inserted", inserted,
		"duplicates", len(filings)-inserted,
	)
}
