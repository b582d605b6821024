package google

import (
	"commissions/internal/core"
	"commissions/internal/export"
)

// salesValues builds the value matrix for the mirror: the export header
// followed by one row per sale. Numbers stay numeric so the sheet can sum them.
func salesValues(sales []core.SaleView) [][]any {
	values := make([][]any, 0, len(sales)+1)
	values = append(values, toRow(export.Header))
	for _, s := range sales {
		values = append(values, []any{
			s.ID,
			s.Date.String(),
			s.RepresentativeName,
			s.CustomerName,
			s.Value,
			s.CommissionRateApplied,
			s.CommissionValue,
		})
	}
	return values
}

func toRow(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
