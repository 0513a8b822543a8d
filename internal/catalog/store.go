// Package catalog holds the loaded resources in memory and appends
// accepted submissions to the catalog file.
package catalog

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

// Store keeps catalog records in file order. Records are only ever added
// or replaced wholesale on reload.
type Store struct {
	mu         sync.RWMutex
	records    []domain.Resource
	lastReload time.Time
	version    uint64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps in a freshly loaded record set.
func (s *Store) Replace(records []domain.Resource) {
	cp := make([]domain.Resource, len(records))
	copy(cp, records)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = cp
	s.lastReload = time.Now()
	s.version++
}

// Append adds one record at the end. Records without a title or link are
// rejected with domain.ErrNotAdmissible.
func (s *Store) Append(r domain.Resource) error {
	if !r.Admissible() {
		return domain.ErrNotAdmissible
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)
	s.version++
	return nil
}

// All returns a copy of every record in order.
func (s *Store) All() []domain.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Resource, len(s.records))
	copy(out, s.records)
	return out
}

// Snapshot returns a copy of the records with the version they belong to.
func (s *Store) Snapshot() ([]domain.Resource, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Resource, len(s.records))
	copy(out, s.records)
	return out, s.version
}

// Count returns the number of records.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// LastReload returns when Replace last ran.
func (s *Store) LastReload() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastReload
}

// Version changes on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}
