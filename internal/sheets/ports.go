package sheets

import (
	"context"

	"commissions/internal/core"
)

// SalesMirror keeps an external copy of the full sales table.
type SalesMirror interface {
	// ReplaceSales overwrites the mirror with exactly the given sales.
	ReplaceSales(ctx context.Context, sales []core.SaleView) error
}
