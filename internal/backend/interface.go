// Package backend selects the sheet mirror the worker writes to.
package backend

import (
	"context"

	"commissions/internal/sheets"
)

// CleanupFunc releases resources held by a mirror.
type CleanupFunc func() error

// Result is a mirror together with its cleanup.
type Result struct {
	Mirror  sheets.SalesMirror
	Cleanup CleanupFunc
}

// Factory creates mirrors from configuration.
type Factory interface {
	CreateMirror(ctx context.Context, config Config) (*Result, error)
}

// Config holds what any mirror type may need.
type Config struct {
	Type MirrorType

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

type MirrorType string

const (
	GoogleMirror MirrorType = "google"
	MemoryMirror MirrorType = "memory"
)

func (t MirrorType) IsValid() bool {
	switch t {
	case GoogleMirror, MemoryMirror:
		return true
	}
	return false
}

func (t MirrorType) String() string {
	return string(t)
}
