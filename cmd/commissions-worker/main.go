package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"commissions/internal/amqp"
	"commissions/internal/backend"
	"commissions/internal/cli"
	"commissions/internal/config"
	applog "commissions/internal/log"
	"commissions/internal/metrics"
	"commissions/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	logger.Info("Starting commissions-worker", applog.FieldOperation, applog.OpStartup)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	mirrorCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid mirror configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}
	mirror, err := backend.NewFactory(logger.WithComponent(applog.ComponentSheets).Logger).CreateMirror(ctx, mirrorCfg)
	if err != nil {
		logger.Error("Failed to initialize sheet mirror",
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeConfiguration,
			"mirror", mirrorCfg.Type.String())
		os.Exit(1)
	}
	defer mirror.Cleanup()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client",
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		os.Exit(1)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(repo, mirror.Mirror, metrics.New(), logger)

	// Catch up on anything published while the worker was down.
	if err := syncWorker.Sync(ctx, worker.TriggerStartup); err != nil {
		logger.Error("Startup sync failed", applog.FieldError, err.Error())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeSaleEvents(gctx, syncWorker.HandleSaleEvent)
	})
	g.Go(func() error {
		return syncWorker.RunPeriodic(gctx, cfg.SyncInterval)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
