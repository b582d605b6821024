package storage

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"commissions/internal/core"
)

var fixedNow = time.Date(2024, time.March, 20, 15, 4, 5, 0, time.UTC)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "commissions.db")
	repo, err := NewSQLiteRepository(path, WithClock(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func rate(f float64) *float64 { return &f }

func mustRep(t *testing.T, repo *SQLiteRepository, name string, r float64) core.Representative {
	t.Helper()
	rep, err := repo.CreateRepresentative(context.Background(), core.CreateRepresentativeInput{Name: name, CommissionRate: r})
	if err != nil {
		t.Fatalf("create representative %q: %v", name, err)
	}
	return rep
}

func mustCustomer(t *testing.T, repo *SQLiteRepository, name string) core.Customer {
	t.Helper()
	c, err := repo.CreateCustomer(context.Background(), core.CreateCustomerInput{Name: name})
	if err != nil {
		t.Fatalf("create customer %q: %v", name, err)
	}
	return c
}

func mustSale(t *testing.T, repo *SQLiteRepository, in core.CreateSaleInput) core.Sale {
	t.Helper()
	s, err := repo.CreateSale(context.Background(), in)
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return s.Sale
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "commissions.db")

	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()

	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration run should be a no-op, got %v", err)
	}
	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	repo.Close()
}

func TestCreateSaleScenario(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ana := mustRep(t, repo, "Ana", 10)
	bob := mustCustomer(t, repo, "Bob")

	sale := mustSale(t, repo, core.CreateSaleInput{
		RepresentativeID: ana.ID,
		CustomerID:       bob.ID,
		Value:            200,
		Date:             core.NewDate(2024, 3, 15),
	})

	if sale.CommissionValue != 20.0 || sale.CommissionRateApplied != 10 {
		t.Fatalf("unexpected commission: %+v", sale)
	}
	if sale.Date.String() != "2024-03-15" {
		t.Fatalf("unexpected date %s", sale.Date)
	}

	got, err := repo.GetRepresentative(ctx, ana.ID)
	if err != nil {
		t.Fatalf("get representative: %v", err)
	}
	if got.TotalSold != 200 || got.TotalCommission != 20 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestCreateSaleIncrementsTotalsExactly(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rep := mustRep(t, repo, "Ana", 7.5)
	cust := mustCustomer(t, repo, "Bob")

	values := []float64{19.99, 0.0001, 1234.5, 3}
	for _, v := range values {
		before, err := repo.GetRepresentative(ctx, rep.ID)
		if err != nil {
			t.Fatalf("get representative: %v", err)
		}
		sale := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: v})
		after, err := repo.GetRepresentative(ctx, rep.ID)
		if err != nil {
			t.Fatalf("get representative: %v", err)
		}
		if !approx(after.TotalSold-before.TotalSold, v) {
			t.Fatalf("total_sold moved by %v, want %v", after.TotalSold-before.TotalSold, v)
		}
		if !approx(after.TotalCommission-before.TotalCommission, sale.CommissionValue) {
			t.Fatalf("total_commission moved by %v, want %v",
				after.TotalCommission-before.TotalCommission, sale.CommissionValue)
		}
	}
}

func TestCreateSaleDefaults(t *testing.T) {
	repo := newTestRepo(t)

	rep := mustRep(t, repo, "Ana", 12)
	cust := mustCustomer(t, repo, "Bob")

	t.Run("date defaults to today", func(t *testing.T) {
		sale := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 10})
		if sale.Date.String() != "2024-03-20" {
			t.Fatalf("expected clock date, got %s", sale.Date)
		}
	})

	t.Run("nil rate uses representative default", func(t *testing.T) {
		sale := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 100})
		if sale.CommissionRateApplied != 12 || sale.CommissionValue != 12 {
			t.Fatalf("unexpected sale %+v", sale)
		}
	})

	t.Run("explicit zero rate is honored", func(t *testing.T) {
		sale := mustSale(t, repo, core.CreateSaleInput{
			RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 100, CommissionRate: rate(0),
		})
		if sale.CommissionRateApplied != 0 || sale.CommissionValue != 0 {
			t.Fatalf("unexpected sale %+v", sale)
		}
	})
}

func TestCommissionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	cust := mustCustomer(t, repo, "Bob")

	cases := []struct {
		name string
		rate float64
		want float64
	}{
		{"Full", 100, 50.0},
		{"None", 0, 0.0},
	}
	for _, tc := range cases {
		rep := mustRep(t, repo, tc.name, tc.rate)
		sale := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 50})
		if sale.CommissionValue != tc.want {
			t.Fatalf("rate %v: commission %v, want %v", tc.rate, sale.CommissionValue, tc.want)
		}
	}
}

func TestRepresentativeRateBoundary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.CreateRepresentative(ctx, core.CreateRepresentativeInput{Name: "A", CommissionRate: 100.0001})
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *core.ValidationError, got %v", err)
	}

	if _, err := repo.CreateRepresentative(ctx, core.CreateRepresentativeInput{Name: "A", CommissionRate: 100.0}); err != nil {
		t.Fatalf("rate 100 should succeed after a rejected attempt, got %v", err)
	}
}

func TestSaleValueBoundary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")

	_, err := repo.CreateSale(ctx, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 0})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("value 0 should be rejected, got %v", err)
	}
	got, _ := repo.GetRepresentative(ctx, rep.ID)
	if got.TotalSold != 0 {
		t.Fatalf("rejected sale must not touch totals, got %+v", got)
	}

	if _, err := repo.CreateSale(ctx, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 0.0001}); err != nil {
		t.Fatalf("value 0.0001 should succeed, got %v", err)
	}
}

func TestCreateSaleMissingReferences(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")

	cases := []struct {
		name  string
		in    core.CreateSaleInput
		field string
	}{
		{"unknown representative", core.CreateSaleInput{RepresentativeID: 999, CustomerID: cust.ID, Value: 10}, "representative_id"},
		{"unknown customer", core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: 999, Value: 10}, "customer_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.CreateSale(ctx, tc.in)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *core.ValidationError, got %v", err)
			}
			if _, ok := verr.Violations[tc.field]; !ok {
				t.Fatalf("expected violation on %s, got %v", tc.field, verr.Violations)
			}
			if !errors.Is(err, core.ErrNotFound) {
				t.Fatalf("expected error to match ErrNotFound, got %v", err)
			}
		})
	}

	sales, err := repo.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected no sales, got %d", len(sales))
	}
}

func TestUpdateSaleAppliesDelta(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")

	mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 300})
	target := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 200})

	updated, err := repo.UpdateSale(ctx, target.ID, core.UpdateSaleInput{Value: 150, CommissionRate: 20})
	if err != nil {
		t.Fatalf("update sale: %v", err)
	}
	if updated.CommissionValue != 30 || updated.Value != 150 || updated.Date != target.Date {
		t.Fatalf("unexpected updated sale %+v", updated)
	}

	got, err := repo.GetRepresentative(ctx, rep.ID)
	if err != nil {
		t.Fatalf("get representative: %v", err)
	}
	// 300 + 150 sold; 30 + 30 commission
	if !approx(got.TotalSold, 450) || !approx(got.TotalCommission, 60) {
		t.Fatalf("unexpected totals after update: %+v", got)
	}
}

func TestSaleMutationsReturnJoinedView(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")

	created, err := repo.CreateSale(ctx, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 80})
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if created.ID == 0 || created.RepresentativeName != "Ana" || created.CustomerName != "Bob" {
		t.Fatalf("unexpected created view %+v", created)
	}

	updated, err := repo.UpdateSale(ctx, created.ID, core.UpdateSaleInput{Value: 90, CommissionRate: 10})
	if err != nil {
		t.Fatalf("update sale: %v", err)
	}
	if updated.RepresentativeName != "Ana" || updated.CustomerName != "Bob" || updated.CommissionValue != 9 {
		t.Fatalf("unexpected updated view %+v", updated)
	}

	stored, err := repo.GetSale(ctx, created.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if stored != updated {
		t.Fatalf("returned view %+v differs from stored %+v", updated, stored)
	}
}

func TestUpdateSaleErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")
	sale := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 100})

	if _, err := repo.UpdateSale(ctx, 999, core.UpdateSaleInput{Value: 1, CommissionRate: 1}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.UpdateSale(ctx, sale.ID, core.UpdateSaleInput{Value: 0, CommissionRate: 1}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := repo.UpdateSale(ctx, sale.ID, core.UpdateSaleInput{Value: 1, CommissionRate: 101}); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, _ := repo.GetRepresentative(ctx, rep.ID)
	if got.TotalSold != 100 || got.TotalCommission != 10 {
		t.Fatalf("failed updates must not touch totals, got %+v", got)
	}
}

func TestDeleteSale(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")
	keep := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 100})
	drop := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 40})

	ok, err := repo.DeleteSale(ctx, 999)
	if err != nil || ok {
		t.Fatalf("deleting unknown id: ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetRepresentative(ctx, rep.ID)
	if !approx(got.TotalSold, 140) || !approx(got.TotalCommission, 14) {
		t.Fatalf("deleting unknown id mutated totals: %+v", got)
	}

	ok, err = repo.DeleteSale(ctx, drop.ID)
	if err != nil || !ok {
		t.Fatalf("delete sale: ok=%v err=%v", ok, err)
	}
	got, _ = repo.GetRepresentative(ctx, rep.ID)
	if !approx(got.TotalSold, 100) || !approx(got.TotalCommission, 10) {
		t.Fatalf("unexpected totals after delete: %+v", got)
	}

	if _, err := repo.GetSale(ctx, drop.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected deleted sale to be gone, got %v", err)
	}
	if _, err := repo.GetSale(ctx, keep.ID); err != nil {
		t.Fatalf("other sale should remain: %v", err)
	}

	ok, err = repo.DeleteSale(ctx, drop.ID)
	if err != nil || ok {
		t.Fatalf("second delete: ok=%v err=%v", ok, err)
	}
}

func TestDuplicateNames(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ana := mustRep(t, repo, "Ana", 10)

	_, err := repo.CreateRepresentative(ctx, core.CreateRepresentativeInput{Name: "  Ana ", CommissionRate: 50})
	var dup *core.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *core.DuplicateNameError, got %v", err)
	}
	if dup.Name != "Ana" || dup.Entity != "representative" {
		t.Fatalf("unexpected duplicate error %+v", dup)
	}

	got, err := repo.GetRepresentative(ctx, ana.ID)
	if err != nil {
		t.Fatalf("get representative: %v", err)
	}
	if got != ana {
		t.Fatalf("original record changed: %+v vs %+v", got, ana)
	}

	if _, err := repo.CreateRepresentative(ctx, core.CreateRepresentativeInput{Name: "ana", CommissionRate: 5}); err != nil {
		t.Fatalf("names compare case-sensitively, got %v", err)
	}

	mustCustomer(t, repo, "Bob")
	if _, err := repo.CreateCustomer(ctx, core.CreateCustomerInput{Name: "Bob", Phone: "1"}); !errors.Is(err, core.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName for customer, got %v", err)
	}
}

func TestIsUniqueViolationOnRawInsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	mustRep(t, repo, "Ana", 10)

	_, err := repo.queries.CreateRepresentative(ctx, CreateRepresentativeParams{Name: "Ana", CommissionRate: 1})
	if err == nil {
		t.Fatal("expected constraint error on raw insert")
	}
	if !isUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Fatal("plain errors are not unique violations")
	}
}

func TestListOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Carla", "Ana", "Bia"} {
		mustRep(t, repo, name, 10)
		mustCustomer(t, repo, name)
	}

	reps, err := repo.ListRepresentatives(ctx)
	if err != nil {
		t.Fatalf("list representatives: %v", err)
	}
	customers, err := repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	want := []string{"Ana", "Bia", "Carla"}
	for i, name := range want {
		if reps[i].Name != name || customers[i].Name != name {
			t.Fatalf("position %d: got rep %q customer %q, want %q", i, reps[i].Name, customers[i].Name, name)
		}
	}

	rep := reps[0]
	cust := customers[0]
	first := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 1, Date: core.NewDate(2024, 1, 10)})
	second := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 2, Date: core.NewDate(2024, 3, 1)})
	third := mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 3, Date: core.NewDate(2024, 1, 10)})

	sales, err := repo.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	wantIDs := []int64{second.ID, third.ID, first.ID}
	if len(sales) != len(wantIDs) {
		t.Fatalf("expected %d sales, got %d", len(wantIDs), len(sales))
	}
	for i, id := range wantIDs {
		if sales[i].ID != id {
			t.Fatalf("position %d: got sale %d, want %d", i, sales[i].ID, id)
		}
	}
	if sales[0].RepresentativeName != "Ana" || sales[0].CustomerName != "Ana" {
		t.Fatalf("sale view names not resolved: %+v", sales[0])
	}
}

func TestListSalesInRange(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	rep := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")

	for _, d := range []core.Date{
		core.NewDate(2024, 2, 29),
		core.NewDate(2024, 3, 1),
		core.NewDate(2024, 3, 31),
		core.NewDate(2024, 4, 1),
	} {
		mustSale(t, repo, core.CreateSaleInput{RepresentativeID: rep.ID, CustomerID: cust.ID, Value: 10, Date: d})
	}

	cases := []struct {
		name string
		rng  core.DateRange
		want int
	}{
		{"march", core.Period{Year: 2024, Month: 3}.Range(), 2},
		{"open start", core.DateRange{End: core.NewDate(2024, 3, 1)}, 1},
		{"open end", core.DateRange{Start: core.NewDate(2024, 3, 31)}, 2},
		{"unbounded", core.DateRange{}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sales, err := repo.ListSalesInRange(ctx, tc.rng)
			if err != nil {
				t.Fatalf("list sales in range: %v", err)
			}
			if len(sales) != tc.want {
				t.Fatalf("got %d sales, want %d", len(sales), tc.want)
			}
			for _, s := range sales {
				if !tc.rng.Contains(s.Date) {
					t.Fatalf("sale dated %s outside range", s.Date)
				}
			}
		})
	}
}

func TestMonthlyTotalsOverStoredSales(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ana := mustRep(t, repo, "Ana", 10)
	cust := mustCustomer(t, repo, "Bob")

	mustSale(t, repo, core.CreateSaleInput{RepresentativeID: ana.ID, CustomerID: cust.ID, Value: 200, Date: core.NewDate(2024, 3, 15)})
	mustSale(t, repo, core.CreateSaleInput{RepresentativeID: ana.ID, CustomerID: cust.ID, Value: 500, Date: core.NewDate(2024, 4, 2)})

	sales, err := repo.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	total, commission := core.MonthlyTotals(sales, 2024, 3)
	if total != 200 || commission != 20 {
		t.Fatalf("march totals %v/%v, want 200/20", total, commission)
	}
}

func TestRankingOverStoredSales(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	ana := mustRep(t, repo, "Ana", 10)
	bia := mustRep(t, repo, "Bia", 10)
	cust := mustCustomer(t, repo, "Bob")

	mustSale(t, repo, core.CreateSaleInput{RepresentativeID: ana.ID, CustomerID: cust.ID, Value: 300})
	mustSale(t, repo, core.CreateSaleInput{RepresentativeID: bia.ID, CustomerID: cust.ID, Value: 200})
	mustSale(t, repo, core.CreateSaleInput{RepresentativeID: bia.ID, CustomerID: cust.ID, Value: 300})

	sales, err := repo.ListSales(ctx)
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	ranking := core.RankingByValue(sales)
	if len(ranking) != 2 || ranking[0].RepresentativeID != bia.ID || ranking[0].Total != 500 {
		t.Fatalf("unexpected ranking %+v", ranking)
	}

	overall, err := repo.OverallTotalSold(ctx)
	if err != nil {
		t.Fatalf("overall total sold: %v", err)
	}
	if overall != 800 {
		t.Fatalf("overall total %v, want 800", overall)
	}
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetRepresentative(ctx, 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetCustomer(ctx, 1); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var nf *core.NotFoundError
	if _, err := repo.GetSale(ctx, 1); !errors.As(err, &nf) || nf.Entity != "sale" {
		t.Fatalf("expected sale NotFoundError, got %v", err)
	}
	if total, err := repo.OverallTotalSold(ctx); err != nil || total != 0 {
		t.Fatalf("empty overall total: %v %v", total, err)
	}
	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
