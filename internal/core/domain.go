package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format sales are stored with.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	Representative struct {
		ID              int64   `json:"id"`
		Name            string  `json:"name"`
		CommissionRate  float64 `json:"commission_rate"`
		TotalSold       float64 `json:"total_sold"`
		TotalCommission float64 `json:"total_commission"`
	}

	Customer struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}

	Sale struct {
		ID                    int64   `json:"id"`
		RepresentativeID      int64   `json:"representative_id"`
		CustomerID            int64   `json:"customer_id"`
		Value                 float64 `json:"value"`
		Date                  Date    `json:"date"`
		CommissionRateApplied float64 `json:"commission_rate_applied"`
		CommissionValue       float64 `json:"commission_value"`
	}

	// SaleView is a Sale denormalized with the names used for display and export.
	SaleView struct {
		Sale
		RepresentativeName string `json:"representative_name"`
		CustomerName       string `json:"customer_name"`
	}
)

var ErrInvalidDate = errors.New("invalid date")

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. 0001-01-01 is rejected: it is the
// zero Date, which sale inputs read as "today".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil || t.IsZero() {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// String formats the date as YYYY-MM-DD, or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CommissionFor returns value * rate / 100.
func CommissionFor(value, rate float64) float64 {
	return value * rate / 100
}
