package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"commissions/internal/amqp"
	"commissions/internal/cache"
	"commissions/internal/cli"
	"commissions/internal/config"
	apphttp "commissions/internal/http"
	applog "commissions/internal/log"
	"commissions/internal/metrics"
	"commissions/internal/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	m := metrics.New()

	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client",
				applog.FieldError, err.Error(),
				applog.FieldErrorType, applog.ErrorTypeNetwork)
			os.Exit(1)
		}
		publisher = client
		logger.Info("Publishing sale events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP_URL not set, sale events disabled")
	}

	reportCache := cache.NewLRUCache[services.MonthReport](cfg.ReportCacheSize, cfg.ReportCacheTTL, cache.WithObserver(m.ObserveCache))
	dashboardCache := cache.NewLRUCache[services.Dashboard](cfg.ReportCacheSize, cfg.ReportCacheTTL, cache.WithObserver(m.ObserveCache))
	janitor := cache.NewJanitor(logger.WithComponent(applog.ComponentCache).Logger, reportCache, dashboardCache)

	reports := services.NewReportService(repo, services.WithReportCache(reportCache, dashboardCache))
	sales := services.NewSalesService(repo, publisher, reports, m, logger)
	defer sales.Close()

	srv := apphttp.NewServer(cli.Addr(cfg.Port), apphttp.Deps{
		Sales:              sales,
		Reports:            reports,
		Ready:              repo.Ping,
		Metrics:            m,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		janitor.Run(gctx, janitorInterval(cfg.ReportCacheTTL))
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting commissions server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// janitorInterval sweeps at the cache TTL, but never more often than every
// ten seconds.
func janitorInterval(ttl time.Duration) time.Duration {
	if ttl < 10*time.Second {
		return 10 * time.Second
	}
	return ttl
}
