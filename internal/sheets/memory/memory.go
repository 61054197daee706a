package memory

import (
	"errors"
	"sync/atomic"

	"xlsdash/internal/core"
	ports "xlsdash/internal/sheets"
)

var _ ports.WorkbookStore = (*Store)(nil)

var ErrNoWorkbook = errors.New("no workbook loaded")

// Store holds the current workbook. Readers always see either the previous
// or the next workbook in full, never a mix.
type Store struct {
	current atomic.Pointer[core.Workbook]
	loads   atomic.Uint64
}

func New() *Store {
	return &Store{}
}

// Replace swaps in wb. A nil workbook clears the store.
func (s *Store) Replace(wb *core.Workbook) {
	s.current.Store(wb)
	if wb != nil {
		s.loads.Add(1)
	}
}

// Current returns the loaded workbook or ErrNoWorkbook.
func (s *Store) Current() (*core.Workbook, error) {
	wb := s.current.Load()
	if wb == nil {
		return nil, ErrNoWorkbook
	}
	return wb, nil
}

// Loads reports how many workbooks have been stored since start.
func (s *Store) Loads() uint64 {
	return s.loads.Load()
}
