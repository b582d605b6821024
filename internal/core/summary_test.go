package core

import (
	"errors"
	"testing"
	"time"
)

func view(id, repID int64, repName string, value, commission float64, d Date) SaleView {
	return SaleView{
		Sale: Sale{
			ID:               id,
			RepresentativeID: repID,
			Value:            value,
			Date:             d,
			CommissionValue:  commission,
		},
		RepresentativeName: repName,
	}
}

func TestMonthlyTotals(t *testing.T) {
	sales := []SaleView{
		view(1, 1, "Ana", 100, 10, NewDate(2024, 3, 1)),
		view(2, 1, "Ana", 50, 5, NewDate(2024, 3, 31)),
		view(3, 2, "Bia", 70, 7, NewDate(2024, 4, 1)),
		view(4, 2, "Bia", 30, 3, NewDate(2023, 3, 15)),
	}

	total, commission := MonthlyTotals(sales, 2024, 3)
	if total != 150 || commission != 15 {
		t.Fatalf("got total=%v commission=%v, want 150/15", total, commission)
	}

	total, commission = MonthlyTotals(sales, 2024, 5)
	if total != 0 || commission != 0 {
		t.Fatalf("expected zero totals for empty month, got %v/%v", total, commission)
	}
}

func TestSumSales(t *testing.T) {
	total, commission := SumSales([]SaleView{
		view(1, 1, "Ana", 100, 10, NewDate(2024, 3, 1)),
		view(2, 2, "Bia", 25, 2.5, NewDate(2022, 1, 1)),
	})
	if total != 125 || commission != 12.5 {
		t.Fatalf("got %v/%v", total, commission)
	}
	if total, commission := SumSales(nil); total != 0 || commission != 0 {
		t.Fatalf("expected zero for nil, got %v/%v", total, commission)
	}
}

func TestRankingByValue(t *testing.T) {
	d := NewDate(2024, 3, 1)
	sales := []SaleView{
		view(1, 1, "Ana", 100, 0, d),
		view(2, 2, "Bia", 300, 0, d),
		view(3, 1, "Ana", 50, 0, d),
		view(4, 3, "Caio", 150, 0, d),
		view(5, 4, "Duda", 10, 0, d),
	}

	got := RankingByValue(sales)
	want := []RankingEntry{
		{RepresentativeID: 2, RepresentativeName: "Bia", Total: 300},
		{RepresentativeID: 1, RepresentativeName: "Ana", Total: 150},
		{RepresentativeID: 3, RepresentativeName: "Caio", Total: 150},
		{RepresentativeID: 4, RepresentativeName: "Duda", Total: 10},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}

	top := TopN(got, 3)
	if len(top) != 3 || top[2].RepresentativeID != 3 {
		t.Fatalf("unexpected top 3: %+v", top)
	}
}

func TestRankingByValueSeparatesHomonyms(t *testing.T) {
	d := NewDate(2024, 3, 1)
	got := RankingByValue([]SaleView{
		view(1, 1, "Ana", 10, 0, d),
		view(2, 2, "Ana", 20, 0, d),
	})
	if len(got) != 2 {
		t.Fatalf("representatives with equal names must rank separately, got %+v", got)
	}
}

func TestTopNClamps(t *testing.T) {
	r := []RankingEntry{{RepresentativeID: 1}, {RepresentativeID: 2}}
	if got := TopN(r, 3); len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got := TopN(r, -1); len(got) != 0 {
		t.Fatalf("expected 0, got %d", len(got))
	}
	if got := TopN(nil, 3); len(got) != 0 {
		t.Fatalf("expected 0, got %d", len(got))
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2024-12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Year != 2024 || p.Month != 12 || p.String() != "2024-12" {
		t.Fatalf("unexpected period %+v", p)
	}
	r := p.Range()
	if r.Start.String() != "2024-12-01" || r.End.String() != "2025-01-01" {
		t.Fatalf("unexpected range %s..%s", r.Start, r.End)
	}

	for _, bad := range []string{"2024-13", "12/2024", "", "2024-1-1"} {
		if _, err := ParsePeriod(bad); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("ParsePeriod(%q) expected ErrInvalidPeriod, got %v", bad, err)
		}
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: NewDate(2024, 3, 1), End: NewDate(2024, 4, 1)}
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2024, 2, 29), false},
		{NewDate(2024, 3, 1), true},
		{NewDate(2024, 3, 31), true},
		{NewDate(2024, 4, 1), false},
	}
	for _, tc := range cases {
		if got := r.Contains(tc.d); got != tc.want {
			t.Fatalf("Contains(%s) = %v, want %v", tc.d, got, tc.want)
		}
	}

	open := DateRange{Start: NewDate(2024, 3, 1)}
	if !open.Contains(NewDate(2099, 1, 1)) {
		t.Fatal("open end should accept any later date")
	}
}

func TestPeriodOf(t *testing.T) {
	p := PeriodOf(time.Date(2024, time.February, 29, 23, 0, 0, 0, time.UTC))
	if p != (Period{Year: 2024, Month: 2}) {
		t.Fatalf("unexpected period %+v", p)
	}
}
