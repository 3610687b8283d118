// Package ledger tracks which file names have already been watermarked.
//
// A name in the ledger is never processed again, even if the file behind it
// changes. Names are compared by base name only.
package ledger

import (
	"context"
	"fmt"
)

// Store persists the ledger snapshot. Save replaces the whole snapshot.
type Store interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, names []string) error
}

// Set is an insertion-ordered set of file names.
type Set struct {
	index map[string]struct{}
	names []string
}

func NewSet(names ...string) *Set {
	s := &Set{index: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name and reports whether it was new.
func (s *Set) Add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *Set) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Set) Len() int {
	return len(s.names)
}

// Names returns a copy in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Load reads the current snapshot from store.
func Load(ctx context.Context, store Store) (*Set, error) {
	names, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return NewSet(names...), nil
}

// Persist rewrites the snapshot in store with the contents of s.
func Persist(ctx context.Context, store Store, s *Set) error {
	if err := store.Save(ctx, s.Names()); err != nil {
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}

// Reset empties the stored ledger.
func Reset(ctx context.Context, store Store) error {
	if err := store.Save(ctx, nil); err != nil {
		return fmt.Errorf("failed to reset ledger: %w", err)
	}
	return nil
}
