// Package session keeps per-visitor query state and the duplicate index
// built from the catalog snapshot that visitor last saw.
package session

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

// Snapshotter exposes a versioned copy of the catalog.
type Snapshotter interface {
	Snapshot() ([]domain.Resource, uint64)
	Version() uint64
}

// Session is one visitor's state. All methods are safe for concurrent use.
type Session struct {
	ID string

	mu       sync.Mutex
	query    domain.QueryState
	lastSeen time.Time

	dedup        *submission.DuplicateIndex
	dedupVersion uint64
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, query: domain.NewQueryState(), lastSeen: now}
}

// Query returns the current view selection.
func (s *Session) Query() domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// UpdateQuery applies fn to the view selection and returns the result.
func (s *Session) UpdateQuery(fn func(domain.QueryState) domain.QueryState) domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = fn(s.query)
	return s.query
}

// DuplicateIndex returns the index for the catalog's current version,
// building it on first use and again whenever the catalog changed.
func (s *Session) DuplicateIndex(catalog Snapshotter, n *domain.Normalizer) *submission.DuplicateIndex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dedup != nil && s.dedupVersion == catalog.Version() {
		return s.dedup
	}

	records, version := catalog.Snapshot()
	s.dedup = submission.NewDuplicateIndex(records, n)
	s.dedupVersion = version
	return s.dedup
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns when the session was last used.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
