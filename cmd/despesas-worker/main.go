package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"despesas/internal/amqp"
	"despesas/internal/cli"
	"despesas/internal/log"
	"despesas/internal/services"
	gsheet "despesas/internal/sheets/google"
	"despesas/internal/worker"
)

func main() {
	cfg, logger := cli.LoadConfig(log.ComponentWorker)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	store := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage backend", log.FieldError, err)
		}
	}()

	// Read-only: no notifier.
	ledger, err := services.NewExpenseStore(ctx, store.Store, services.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to load ledger", log.FieldError, err)
		os.Exit(1)
	}

	sheet, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	consumer, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", log.FieldError, err)
		os.Exit(1)
	}
	defer consumer.Close()

	mirror := worker.NewMirrorWorker(ledger, sheet, logger)

	// Catch up on changes made while the worker was down.
	if err := mirror.Sync(ctx); err != nil {
		logger.Error("Startup sync failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting despesas-worker", "queue", cfg.AMQPQueue, "spreadsheet_id", cfg.GoogleSpreadsheetID)
		return consumer.Consume(gctx, mirror.HandleChange)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
