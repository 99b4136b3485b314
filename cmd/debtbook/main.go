package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"debtbook/internal/cli"
	"debtbook/internal/events"
	apphttp "debtbook/internal/http"
	"debtbook/internal/ledger"
	applog "debtbook/internal/log"
	"debtbook/internal/service"
	"debtbook/internal/storage"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	persister, err := storage.Open(cfg)
	if err != nil {
		logger.Error("Failed to open snapshot backend", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	snap, err := persister.Load(context.Background())
	if err != nil {
		logger.Error("Failed to load snapshot", applog.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	store := ledger.New(snap)

	// Change feed is optional: without a broker URL the ledger just
	// skips publishing.
	var publisher service.ChangePublisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to connect change feed, continuing without it", applog.FieldError, err)
		} else {
			defer client.Close()
			publisher = client
			logger.Info("Change feed connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := service.New(store, persister, publisher)
	defer svc.Close()

	srv := apphttp.NewServer(":"+cfg.Port, svc)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
	})

	logger.Info("Starting debtbook server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"users", len(snap.Users),
		"bills", len(snap.Bills))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
