package services

import (
	"context"

	"commissions/internal/amqp"
	"commissions/internal/core"
)

// SalesStore is the persistence the services depend on. *storage.SQLiteRepository
// implements it.
type SalesStore interface {
	CreateRepresentative(ctx context.Context, in core.CreateRepresentativeInput) (core.Representative, error)
	ListRepresentatives(ctx context.Context) ([]core.Representative, error)
	GetRepresentative(ctx context.Context, id int64) (core.Representative, error)
	OverallTotalSold(ctx context.Context) (float64, error)

	CreateCustomer(ctx context.Context, in core.CreateCustomerInput) (core.Customer, error)
	ListCustomers(ctx context.Context) ([]core.Customer, error)
	GetCustomer(ctx context.Context, id int64) (core.Customer, error)

	// CreateSale and UpdateSale return the committed sale joined with its
	// display names, read inside the same transaction.
	CreateSale(ctx context.Context, in core.CreateSaleInput) (core.SaleView, error)
	ListSales(ctx context.Context) ([]core.SaleView, error)
	ListSalesInRange(ctx context.Context, rng core.DateRange) ([]core.SaleView, error)
	GetSale(ctx context.Context, id int64) (core.SaleView, error)
	UpdateSale(ctx context.Context, id int64, in core.UpdateSaleInput) (core.SaleView, error)
	DeleteSale(ctx context.Context, id int64) (bool, error)
}

// Publisher hands committed sale events to the broker.
type Publisher interface {
	PublishSaleEvent(ctx context.Context, ev *amqp.SaleEvent) error
}

// Invalidator drops derived data after a sale mutation.
type Invalidator interface {
	Invalidate()
}

type noopPublisher struct{}

func (noopPublisher) PublishSaleEvent(context.Context, *amqp.SaleEvent) error { return nil }

type noopInvalidator struct{}

func (noopInvalidator) Invalidate() {}
