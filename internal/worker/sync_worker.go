// Package worker mirrors the sales table into the spreadsheet whenever a sale
// event arrives, and periodically as a catch-up for missed events.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"commissions/internal/amqp"
	"commissions/internal/core"
	applog "commissions/internal/log"
	"commissions/internal/metrics"
	"commissions/internal/sheets"
)

const (
	TriggerEvent    = "event"
	TriggerPeriodic = "periodic"
	TriggerStartup  = "startup"
)

// SalesSource lists every sale with display names.
type SalesSource interface {
	ListSales(ctx context.Context) ([]core.SaleView, error)
}

// SyncWorker rewrites the mirror from the database. Every rewrite is a full
// replacement, so events are idempotent and order does not matter.
type SyncWorker struct {
	source  SalesSource
	mirror  sheets.SalesMirror
	metrics *metrics.Metrics
	logger  *applog.Logger

	// one rewrite at a time
	mu sync.Mutex
}

func NewSyncWorker(source SalesSource, mirror sheets.SalesMirror, m *metrics.Metrics, logger *applog.Logger) *SyncWorker {
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncWorker{
		source:  source,
		mirror:  mirror,
		metrics: m,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleSaleEvent is the AMQP handler. A returned error requeues the event.
func (w *SyncWorker) HandleSaleEvent(ctx context.Context, ev *amqp.SaleEvent) error {
	w.logger.InfoContext(ctx, "Processing sale event",
		applog.FieldEventType, ev.Type,
		applog.FieldSaleID, ev.SaleID,
		applog.FieldRepresentative, ev.RepresentativeID)

	err := w.Sync(ctx, TriggerEvent)
	w.metrics.IncrEventConsumed(err)
	return err
}

// Sync replaces the mirror with the current sales table.
func (w *SyncWorker) Sync(ctx context.Context, trigger string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	err := w.sync(ctx)
	w.metrics.IncrSheetSync(trigger, err)
	if err != nil {
		w.logger.ErrorContext(ctx, "Sheet sync failed",
			"trigger", trigger,
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpSync)
		return err
	}

	w.logger.InfoContext(ctx, "Sheet sync completed",
		"trigger", trigger,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

func (w *SyncWorker) sync(ctx context.Context) error {
	sales, err := w.source.ListSales(ctx)
	if err != nil {
		return fmt.Errorf("list sales: %w", err)
	}
	if err := w.mirror.ReplaceSales(ctx, sales); err != nil {
		return fmt.Errorf("replace mirrored sales: %w", err)
	}
	return nil
}

// RunPeriodic syncs every interval until ctx is done. Failures are logged and
// retried on the next tick.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = w.Sync(ctx, TriggerPeriodic)
		}
	}
}
