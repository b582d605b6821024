package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"commissions/internal/cache"
	"commissions/internal/core"
	"commissions/internal/export"
)

const (
	dashboardTopN = 3
	allSalesKey   = "all"
)

var ErrNothingToExport = errors.New("there are no sales to export")

// Dashboard summarizes the current month next to the all-time figures.
type Dashboard struct {
	Period           string              `json:"period"`
	TotalSold        float64             `json:"total_sold"`
	TotalCommission  float64             `json:"total_commission"`
	TopRanking       []core.RankingEntry `json:"top_representatives"`
	OverallTotalSold float64             `json:"overall_total_sold"`
	Sales            []core.SaleView     `json:"sales"`
}

// MonthReport covers one month, or every sale when Month is empty.
type MonthReport struct {
	Month           string              `json:"month"`
	TotalSold       float64             `json:"total_sold"`
	TotalCommission float64             `json:"total_commission"`
	Ranking         []core.RankingEntry `json:"ranking"`
	Sales           []core.SaleView     `json:"sales"`
}

// Export is a rendered CSV download.
type Export struct {
	Filename string
	Content  []byte
	Rows     int
}

type ReportOption func(*ReportService)

// WithReportCache caches month reports and dashboards. Both are cleared by Invalidate.
func WithReportCache(reports cache.Cache[MonthReport], dashboards cache.Cache[Dashboard]) ReportOption {
	return func(s *ReportService) {
		s.reports = reports
		s.dashboards = dashboards
	}
}

func WithReportClock(now func() time.Time) ReportOption {
	return func(s *ReportService) { s.now = now }
}

// ReportService builds the read-side views: dashboard, month reports and exports.
type ReportService struct {
	store      SalesStore
	reports    cache.Cache[MonthReport]
	dashboards cache.Cache[Dashboard]
	now        func() time.Time

	// generation advances on every Invalidate. A report is only cached when
	// no invalidation happened since its store read began. mu orders those
	// writes against Invalidate's Clear.
	mu         sync.Mutex
	generation atomic.Uint64
}

func NewReportService(store SalesStore, opts ...ReportOption) *ReportService {
	s := &ReportService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate drops every cached report, including reports still being built
// from reads that started before the call.
func (s *ReportService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation.Add(1)
	if s.reports != nil {
		s.reports.Clear()
	}
	if s.dashboards != nil {
		s.dashboards.Clear()
	}
}

// Dashboard reports the current month's totals and top representatives, the
// overall total sold and the full sales list.
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	period := core.PeriodOf(s.now())
	key := period.String()
	gen := s.generation.Load()
	if s.dashboards != nil {
		if d, ok := s.dashboards.Get(key); ok {
			return d, nil
		}
	}

	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard sales: %w", err)
	}
	overall, err := s.store.OverallTotalSold(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard overall total: %w", err)
	}

	var inMonth []core.SaleView
	for _, sale := range sales {
		if period.Contains(sale.Date) {
			inMonth = append(inMonth, sale)
		}
	}
	sold, commission := core.MonthlyTotals(sales, period.Year, period.Month)

	d := Dashboard{
		Period:           key,
		TotalSold:        sold,
		TotalCommission:  commission,
		TopRanking:       nonNilRanking(core.TopN(core.RankingByValue(inMonth), dashboardTopN)),
		OverallTotalSold: overall,
		Sales:            nonNil(sales),
	}
	if s.dashboards != nil {
		s.storeIfCurrent(gen, func() { s.dashboards.Set(key, d) })
	}
	return d, nil
}

// MonthReport reports the month named by selector ("YYYY-MM"). An empty or
// unparseable selector reports every sale.
func (s *ReportService) MonthReport(ctx context.Context, selector string) (MonthReport, error) {
	period, perr := core.ParsePeriod(selector)
	key := allSalesKey
	if perr == nil {
		key = period.String()
	}
	gen := s.generation.Load()
	if s.reports != nil {
		if r, ok := s.reports.Get(key); ok {
			return r, nil
		}
	}

	var (
		sales []core.SaleView
		err   error
	)
	if perr == nil {
		sales, err = s.store.ListSalesInRange(ctx, period.Range())
	} else {
		sales, err = s.store.ListSales(ctx)
	}
	if err != nil {
		return MonthReport{}, fmt.Errorf("report sales: %w", err)
	}

	sold, commission := core.SumSales(sales)
	r := MonthReport{
		TotalSold:       sold,
		TotalCommission: commission,
		Ranking:         nonNilRanking(core.RankingByValue(sales)),
		Sales:           nonNil(sales),
	}
	if perr == nil {
		r.Month = key
	}
	if s.reports != nil {
		s.storeIfCurrent(gen, func() { s.reports.Set(key, r) })
	}
	return r, nil
}

// Export renders every sale as CSV. It fails with ErrNothingToExport when
// there are no sales.
func (s *ReportService) Export(ctx context.Context) (Export, error) {
	sales, err := s.store.ListSales(ctx)
	if err != nil {
		return Export{}, fmt.Errorf("export sales: %w", err)
	}
	if len(sales) == 0 {
		return Export{}, ErrNothingToExport
	}

	content, err := export.Render(sales)
	if err != nil {
		return Export{}, fmt.Errorf("render export: %w", err)
	}
	return Export{
		Filename: export.Filename(s.now()),
		Content:  content,
		Rows:     len(sales),
	}, nil
}

// storeIfCurrent runs set unless the caches were invalidated after gen was
// read, so a report built from pre-mutation rows is never cached.
func (s *ReportService) storeIfCurrent(gen uint64, set func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation.Load() != gen {
		return
	}
	set()
}

func nonNil(sales []core.SaleView) []core.SaleView {
	if sales == nil {
		return []core.SaleView{}
	}
	return sales
}

func nonNilRanking(r []core.RankingEntry) []core.RankingEntry {
	if r == nil {
		return []core.RankingEntry{}
	}
	return r
}
