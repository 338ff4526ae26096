package repository

import "sync"

// Store holds a *Repository behind a single-writer/many-reader lock so a
// feed refresh can hot-swap the active Repository (§5) without disrupting
// queries already in flight: a query takes a Snapshot once and keeps using
// it for its whole lifetime, even if Swap replaces the Store's pointer
// before the query finishes.
type Store struct {
	mu   sync.RWMutex
	repo *Repository
}

// NewStore wraps an already-built Repository. It may be nil; Snapshot
// then returns nil until the first Swap.
func NewStore(repo *Repository) *Store {
	return &Store{repo: repo}
}

// Snapshot returns the currently active Repository.
func (s *Store) Snapshot() *Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

// Swap replaces the active Repository under the write lock.
func (s *Store) Swap(next *Repository) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.repo = next
}
