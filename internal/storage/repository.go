package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"commissions/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository owns the sales database. Every mutation that touches more
// than one row runs in a single transaction.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithClock sets the clock used to date sales created without a date.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) {
		if now != nil {
			r.now = now
		}
	}
}

// DSN appends the connection pragmas every handle on dbPath must use.
func DSN(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows one writer; a single connection serializes every statement.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// CreateRepresentative registers a representative with zero totals.
func (r *SQLiteRepository) CreateRepresentative(ctx context.Context, in core.CreateRepresentativeInput) (core.Representative, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Representative{}, err
	}

	var created Representative
	err := r.withTx(ctx, func(q *Queries) error {
		exists, err := q.RepresentativeNameExists(ctx, in.Name)
		if err != nil {
			return fmt.Errorf("check representative name: %w", err)
		}
		if exists {
			return &core.DuplicateNameError{Entity: "representative", Name: in.Name}
		}
		created, err = q.CreateRepresentative(ctx, CreateRepresentativeParams{
			Name:           in.Name,
			CommissionRate: in.CommissionRate,
		})
		if isUniqueViolation(err) {
			return &core.DuplicateNameError{Entity: "representative", Name: in.Name}
		}
		if err != nil {
			return fmt.Errorf("create representative: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Representative{}, err
	}

	slog.InfoContext(ctx, "Representative created",
		"id", created.ID,
		"name", created.Name,
		"commission_rate", created.CommissionRate)

	return toCoreRepresentative(created), nil
}

func (r *SQLiteRepository) ListRepresentatives(ctx context.Context) ([]core.Representative, error) {
	rows, err := r.queries.ListRepresentatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list representatives: %w", err)
	}
	reps := make([]core.Representative, len(rows))
	for i, row := range rows {
		reps[i] = toCoreRepresentative(row)
	}
	return reps, nil
}

func (r *SQLiteRepository) GetRepresentative(ctx context.Context, id int64) (core.Representative, error) {
	row, err := r.queries.GetRepresentative(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Representative{}, &core.NotFoundError{Entity: "representative", ID: id}
	}
	if err != nil {
		return core.Representative{}, fmt.Errorf("get representative: %w", err)
	}
	return toCoreRepresentative(row), nil
}

// OverallTotalSold sums total_sold across every representative.
func (r *SQLiteRepository) OverallTotalSold(ctx context.Context) (float64, error) {
	total, err := r.queries.SumTotalSold(ctx)
	if err != nil {
		return 0, fmt.Errorf("sum total sold: %w", err)
	}
	return total, nil
}

func (r *SQLiteRepository) CreateCustomer(ctx context.Context, in core.CreateCustomerInput) (core.Customer, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Customer{}, err
	}

	var created Customer
	err := r.withTx(ctx, func(q *Queries) error {
		exists, err := q.CustomerNameExists(ctx, in.Name)
		if err != nil {
			return fmt.Errorf("check customer name: %w", err)
		}
		if exists {
			return &core.DuplicateNameError{Entity: "customer", Name: in.Name}
		}
		created, err = q.CreateCustomer(ctx, CreateCustomerParams{Name: in.Name, Phone: in.Phone})
		if isUniqueViolation(err) {
			return &core.DuplicateNameError{Entity: "customer", Name: in.Name}
		}
		if err != nil {
			return fmt.Errorf("create customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.Customer{}, err
	}

	slog.InfoContext(ctx, "Customer created", "id", created.ID, "name", created.Name)
	return toCoreCustomer(created), nil
}

func (r *SQLiteRepository) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	customers := make([]core.Customer, len(rows))
	for i, row := range rows {
		customers[i] = toCoreCustomer(row)
	}
	return customers, nil
}

func (r *SQLiteRepository) GetCustomer(ctx context.Context, id int64) (core.Customer, error) {
	row, err := r.queries.GetCustomer(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Customer{}, &core.NotFoundError{Entity: "customer", ID: id}
	}
	if err != nil {
		return core.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return toCoreCustomer(row), nil
}

// CreateSale records a sale and adds its value and commission to the
// representative's totals. A nil rate uses the representative's default and a
// zero date means today.
func (r *SQLiteRepository) CreateSale(ctx context.Context, in core.CreateSaleInput) (core.SaleView, error) {
	if err := in.Validate(); err != nil {
		return core.SaleView{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = core.DateOf(r.now())
	}

	var created SaleRow
	err := r.withTx(ctx, func(q *Queries) error {
		rep, err := q.GetRepresentative(ctx, in.RepresentativeID)
		if errors.Is(err, sql.ErrNoRows) {
			return core.MissingReference("representative_id",
				&core.NotFoundError{Entity: "representative", ID: in.RepresentativeID})
		}
		if err != nil {
			return fmt.Errorf("get representative: %w", err)
		}

		_, err = q.GetCustomer(ctx, in.CustomerID)
		if errors.Is(err, sql.ErrNoRows) {
			return core.MissingReference("customer_id",
				&core.NotFoundError{Entity: "customer", ID: in.CustomerID})
		}
		if err != nil {
			return fmt.Errorf("get customer: %w", err)
		}

		rate := rep.CommissionRate
		if in.CommissionRate != nil {
			rate = *in.CommissionRate
		}
		commission := core.CommissionFor(in.Value, rate)

		sale, err := q.CreateSale(ctx, CreateSaleParams{
			RepresentativeID:      in.RepresentativeID,
			CustomerID:            in.CustomerID,
			Value:                 in.Value,
			Date:                  date.String(),
			CommissionRateApplied: rate,
			CommissionValue:       commission,
		})
		if err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		if _, err := q.AdjustRepresentativeTotals(ctx, AdjustRepresentativeTotalsParams{
			SoldDelta:       in.Value,
			CommissionDelta: commission,
			ID:              in.RepresentativeID,
		}); err != nil {
			return fmt.Errorf("update representative totals: %w", err)
		}

		created, err = q.GetSaleRow(ctx, sale.ID)
		if err != nil {
			return fmt.Errorf("load created sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.SaleView{}, err
	}
	return toSaleView(created)
}

// ListSales returns every sale, newest first.
func (r *SQLiteRepository) ListSales(ctx context.Context) ([]core.SaleView, error) {
	rows, err := r.queries.ListSaleRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return toSaleViews(rows)
}

// ListSalesInRange returns the sales with rng.Start <= date < rng.End, newest
// first. A zero bound is open.
func (r *SQLiteRepository) ListSalesInRange(ctx context.Context, rng core.DateRange) ([]core.SaleView, error) {
	rows, err := r.queries.ListSaleRowsBetween(ctx, ListSaleRowsBetweenParams{
		Start: rng.Start.String(),
		End:   rng.End.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("list sales in range: %w", err)
	}
	return toSaleViews(rows)
}

func (r *SQLiteRepository) GetSale(ctx context.Context, id int64) (core.SaleView, error) {
	row, err := r.queries.GetSaleRow(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SaleView{}, &core.NotFoundError{Entity: "sale", ID: id}
	}
	if err != nil {
		return core.SaleView{}, fmt.Errorf("get sale: %w", err)
	}
	return toSaleView(row)
}

// UpdateSale replaces a sale's value and rate, recomputes its commission and
// moves the representative's totals by the difference.
func (r *SQLiteRepository) UpdateSale(ctx context.Context, id int64, in core.UpdateSaleInput) (core.SaleView, error) {
	if err := in.Validate(); err != nil {
		return core.SaleView{}, err
	}

	var updated SaleRow
	err := r.withTx(ctx, func(q *Queries) error {
		old, err := q.GetSale(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return &core.NotFoundError{Entity: "sale", ID: id}
		}
		if err != nil {
			return fmt.Errorf("get sale: %w", err)
		}

		commission := core.CommissionFor(in.Value, in.CommissionRate)
		_, err = q.UpdateSale(ctx, UpdateSaleParams{
			Value:                 in.Value,
			CommissionRateApplied: in.CommissionRate,
			CommissionValue:       commission,
			ID:                    id,
		})
		if err != nil {
			return fmt.Errorf("update sale: %w", err)
		}

		if _, err := q.AdjustRepresentativeTotals(ctx, AdjustRepresentativeTotalsParams{
			SoldDelta:       in.Value - old.Value,
			CommissionDelta: commission - old.CommissionValue,
			ID:              old.RepresentativeID,
		}); err != nil {
			return fmt.Errorf("update representative totals: %w", err)
		}

		updated, err = q.GetSaleRow(ctx, id)
		if err != nil {
			return fmt.Errorf("load updated sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return core.SaleView{}, err
	}
	return toSaleView(updated)
}

// DeleteSale removes a sale and subtracts it from the representative's
// totals. It reports false, without touching anything, when id is unknown.
func (r *SQLiteRepository) DeleteSale(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.withTx(ctx, func(q *Queries) error {
		old, err := q.GetSale(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get sale: %w", err)
		}

		if _, err := q.DeleteSale(ctx, id); err != nil {
			return fmt.Errorf("delete sale: %w", err)
		}

		if _, err := q.AdjustRepresentativeTotals(ctx, AdjustRepresentativeTotalsParams{
			SoldDelta:       -old.Value,
			CommissionDelta: -old.CommissionValue,
			ID:              old.RepresentativeID,
		}); err != nil {
			return fmt.Errorf("update representative totals: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
}

func toCoreRepresentative(r Representative) core.Representative {
	return core.Representative{
		ID:              r.ID,
		Name:            r.Name,
		CommissionRate:  r.CommissionRate,
		TotalSold:       r.TotalSold,
		TotalCommission: r.TotalCommission,
	}
}

func toCoreCustomer(c Customer) core.Customer {
	return core.Customer{ID: c.ID, Name: c.Name, Phone: c.Phone}
}

func toCoreSale(s Sale) (core.Sale, error) {
	date, err := core.ParseDate(s.Date)
	if err != nil {
		return core.Sale{}, fmt.Errorf("sale %d has malformed date %q: %w", s.ID, s.Date, err)
	}
	return core.Sale{
		ID:                    s.ID,
		RepresentativeID:      s.RepresentativeID,
		CustomerID:            s.CustomerID,
		Value:                 s.Value,
		Date:                  date,
		CommissionRateApplied: s.CommissionRateApplied,
		CommissionValue:       s.CommissionValue,
	}, nil
}

func toSaleView(row SaleRow) (core.SaleView, error) {
	sale, err := toCoreSale(row.Sale)
	if err != nil {
		return core.SaleView{}, err
	}
	return core.SaleView{
		Sale:               sale,
		RepresentativeName: row.RepresentativeName,
		CustomerName:       row.CustomerName,
	}, nil
}

func toSaleViews(rows []SaleRow) ([]core.SaleView, error) {
	views := make([]core.SaleView, len(rows))
	for i, row := range rows {
		v, err := toSaleView(row)
		if err != nil {
			return nil, err
		}
		views[i] = v
	}
	return views, nil
}
