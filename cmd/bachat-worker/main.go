package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"bachat/internal/amqp"
	"bachat/internal/config"
	"bachat/internal/export"
	"bachat/internal/log"
	"bachat/internal/storage"
	"bachat/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting bachat-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.SheetsEnabled() {
		logger.Info("Spreadsheet export disabled - no GOOGLE_SPREADSHEET_ID provided")
		<-ctx.Done()
		return
	}

	sheetsClient, err := export.NewSheetsClient(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		logger.Error("Failed to initialize Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	syncWorker := worker.NewSyncWorker(repo, sheetsClient, sheetsClient, cfg.SyncBatchSize)

	// Recover anything missed while the worker was down.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
		// Keep running; the periodic sweep retries
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
			syncWorker.HandleSyncMessage, syncWorker.HandleDeleteMessage)
	})

	g.Go(func() error {
		return syncWorker.RunPeriodicSweep(ctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
