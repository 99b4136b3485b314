package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"debtbook/internal/cli"
	"debtbook/internal/events"
	applog "debtbook/internal/log"
	"debtbook/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to broker", applog.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	audit, err := worker.NewAuditWriter(cfg.AuditLogPath)
	if err != nil {
		logger.Error("Failed to open audit log", applog.FieldError, err, "path", cfg.AuditLogPath)
		os.Exit(1)
	}
	defer audit.Close()

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, nil)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return client.ConsumeChanges(gctx, func(msg *events.ChangeMessage) error {
			if err := audit.Record(msg); err != nil {
				return err
			}
			logger.Info("Mutation audited",
				applog.FieldEntity, msg.Entity,
				applog.FieldOp, msg.Op,
				applog.FieldRecordID, msg.ID,
				"version", msg.Version)
			return nil
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				logger.Info("Audit worker heartbeat", "entries", audit.Count())
			}
		}
	})

	logger.Info("Audit worker started", "queue", cfg.AMQPQueue, "audit_log", cfg.AuditLogPath)
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Audit worker stopped gracefully")
}
