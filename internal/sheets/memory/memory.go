// Package memory is an in-process SalesMirror used by tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"

	"commissions/internal/core"
	ports "commissions/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	rows   []core.SaleView
	writes int
	err    error
}

var _ ports.SalesMirror = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// ReplaceSales stores a copy of sales, or returns the injected failure.
func (s *Store) ReplaceSales(_ context.Context, sales []core.SaleView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.rows = append([]core.SaleView(nil), sales...)
	s.writes++
	return nil
}

// Rows returns the last mirrored sales.
func (s *Store) Rows() []core.SaleView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.SaleView(nil), s.rows...)
}

// Writes counts successful replacements.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailWith makes subsequent writes return err. A nil err restores success.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
