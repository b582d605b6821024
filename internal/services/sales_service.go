package services

import (
	"context"
	"errors"
	"fmt"

	"commissions/internal/amqp"
	"commissions/internal/core"
	applog "commissions/internal/log"
	"commissions/internal/metrics"
)

// SalesService runs the mutating operations: it writes through the store,
// then invalidates reports and publishes a sale event once the write committed.
type SalesService struct {
	store     SalesStore
	publisher Publisher
	reports   Invalidator
	metrics   *metrics.Metrics
	logger    *applog.Logger
	events    *applog.StructuredLogger
}

// NewSalesService wires the service. A nil publisher disables event
// publishing and a nil invalidator skips cache invalidation.
func NewSalesService(store SalesStore, publisher Publisher, reports Invalidator, m *metrics.Metrics, logger *applog.Logger) *SalesService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if reports == nil {
		reports = noopInvalidator{}
	}
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentSales)

	return &SalesService{
		store:     store,
		publisher: publisher,
		reports:   reports,
		metrics:   m,
		logger:    logger,
		events:    applog.NewStructuredLogger(logger),
	}
}

func (s *SalesService) CreateRepresentative(ctx context.Context, in core.CreateRepresentativeInput) (core.Representative, error) {
	return s.store.CreateRepresentative(ctx, in)
}

func (s *SalesService) ListRepresentatives(ctx context.Context) ([]core.Representative, error) {
	return s.store.ListRepresentatives(ctx)
}

func (s *SalesService) GetRepresentative(ctx context.Context, id int64) (core.Representative, error) {
	return s.store.GetRepresentative(ctx, id)
}

func (s *SalesService) CreateCustomer(ctx context.Context, in core.CreateCustomerInput) (core.Customer, error) {
	return s.store.CreateCustomer(ctx, in)
}

func (s *SalesService) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return s.store.ListCustomers(ctx)
}

func (s *SalesService) GetCustomer(ctx context.Context, id int64) (core.Customer, error) {
	return s.store.GetCustomer(ctx, id)
}

// ListSales returns every sale, or only those inside rng when it has a bound.
func (s *SalesService) ListSales(ctx context.Context, rng core.DateRange) ([]core.SaleView, error) {
	if rng.Start.IsZero() && rng.End.IsZero() {
		return s.store.ListSales(ctx)
	}
	return s.store.ListSalesInRange(ctx, rng)
}

func (s *SalesService) GetSale(ctx context.Context, id int64) (core.SaleView, error) {
	return s.store.GetSale(ctx, id)
}

// CreateSale records a sale and returns it joined with the display names.
func (s *SalesService) CreateSale(ctx context.Context, in core.CreateSaleInput) (core.SaleView, error) {
	view, err := s.store.CreateSale(ctx, in)
	if err != nil {
		return core.SaleView{}, err
	}
	s.afterCommit(ctx, amqp.SaleCreated, applog.OpCreate, view.Sale)
	return view, nil
}

// UpdateSale replaces the value and rate of a sale.
func (s *SalesService) UpdateSale(ctx context.Context, id int64, in core.UpdateSaleInput) (core.SaleView, error) {
	view, err := s.store.UpdateSale(ctx, id, in)
	if err != nil {
		return core.SaleView{}, err
	}
	s.afterCommit(ctx, amqp.SaleUpdated, applog.OpUpdate, view.Sale)
	return view, nil
}

// DeleteSale removes a sale. It reports false, without side effects, when
// the sale does not exist.
func (s *SalesService) DeleteSale(ctx context.Context, id int64) (bool, error) {
	existing, err := s.store.GetSale(ctx, id)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return false, err
	}

	deleted, err := s.store.DeleteSale(ctx, id)
	if err != nil || !deleted {
		return false, err
	}
	s.afterCommit(ctx, amqp.SaleDeleted, applog.OpDelete, existing.Sale)
	return true, nil
}

func (s *SalesService) afterCommit(ctx context.Context, eventType amqp.EventType, op string, sale core.Sale) {
	s.reports.Invalidate()
	s.metrics.IncrSaleMutation(op)
	s.events.LogSaleEvent(ctx, op, sale.ID, sale.RepresentativeID, sale.Value, sale.CommissionValue)

	ev := amqp.NewSaleEvent(eventType, sale.ID, sale.RepresentativeID)
	err := s.publisher.PublishSaleEvent(ctx, ev)
	s.metrics.IncrEventPublished(err)
	if err != nil {
		s.events.LogError(ctx, "Failed to publish sale event", err,
			applog.ErrorTypeNetwork, applog.OpPublish,
			applog.NewFields().WithSale(sale.ID, sale.RepresentativeID, sale.Value, sale.CommissionValue))
	}
}

// SaleRecordedMessage is the confirmation shown after a sale is created.
func SaleRecordedMessage(v core.SaleView) string {
	return fmt.Sprintf("Sale recorded! %s earned %s in commission", v.RepresentativeName, core.FormatAmount(v.CommissionValue))
}

// Close releases the publisher when it owns a connection.
func (s *SalesService) Close() error {
	if c, ok := s.publisher.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
