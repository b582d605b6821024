package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// RankingEntry is a representative's summed sale value within a set of sales.
type RankingEntry struct {
	RepresentativeID   int64   `json:"representative_id"`
	RepresentativeName string  `json:"representative_name"`
	Total              float64 `json:"total"`
}

// DateRange selects sales with Start <= date < End. A zero bound is open.
type DateRange struct {
	Start Date
	End   Date
}

func (r DateRange) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsZero() && !d.Before(r.End.Time) {
		return false
	}
	return true
}

// Period is a calendar month used as a report selector.
type Period struct {
	Year  int
	Month int // 1-12
}

var ErrInvalidPeriod = errors.New("invalid period, expected YYYY-MM")

// ParsePeriod parses a "YYYY-MM" selector.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: t.Year(), Month: int(t.Month())}, nil
}

// PeriodOf returns the calendar month containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) String() string {
	return NewDate(p.Year, p.Month, 1).Format("2006-01")
}

// Range spans the first day of the month up to, not including, the first day
// of the next month.
func (p Period) Range() DateRange {
	start := NewDate(p.Year, p.Month, 1)
	return DateRange{Start: start, End: Date{Time: start.AddDate(0, 1, 0)}}
}

func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// MonthlyTotals sums value and commission over the sales dated in year/month.
func MonthlyTotals(sales []SaleView, year, month int) (totalValue, totalCommission float64) {
	p := Period{Year: year, Month: month}
	for _, s := range sales {
		if !p.Contains(s.Date) {
			continue
		}
		totalValue += s.Value
		totalCommission += s.CommissionValue
	}
	return totalValue, totalCommission
}

// SumSales sums value and commission over every sale.
func SumSales(sales []SaleView) (totalValue, totalCommission float64) {
	for _, s := range sales {
		totalValue += s.Value
		totalCommission += s.CommissionValue
	}
	return totalValue, totalCommission
}

// RankingByValue sums sale values per representative id, highest first.
// Ties keep the order in which representatives first appear in sales.
func RankingByValue(sales []SaleView) []RankingEntry {
	index := make(map[int64]int)
	var ranking []RankingEntry
	for _, s := range sales {
		i, ok := index[s.RepresentativeID]
		if !ok {
			i = len(ranking)
			index[s.RepresentativeID] = i
			ranking = append(ranking, RankingEntry{
				RepresentativeID:   s.RepresentativeID,
				RepresentativeName: s.RepresentativeName,
			})
		}
		ranking[i].Total += s.Value
	}
	sort.SliceStable(ranking, func(a, b int) bool {
		return ranking[a].Total > ranking[b].Total
	})
	return ranking
}

// TopN returns at most the first n entries of ranking.
func TopN(ranking []RankingEntry, n int) []RankingEntry {
	if n < 0 {
		n = 0
	}
	if n > len(ranking) {
		n = len(ranking)
	}
	return ranking[:n]
}
