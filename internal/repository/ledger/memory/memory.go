package memory

import (
	"context"
	"sync"
)

// LedgerRepository keeps the ledger in process memory.
type LedgerRepository struct {
	mu    sync.Mutex
	names []string
	saves int
}

func NewLedgerRepository(names ...string) *LedgerRepository {
	return &LedgerRepository{names: append([]string(nil), names...)}
}

func (r *LedgerRepository) Load(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...), nil
}

func (r *LedgerRepository) Save(ctx context.Context, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append([]string(nil), names...)
	r.saves++
	return nil
}

// Saves reports how many snapshots were written.
func (r *LedgerRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
