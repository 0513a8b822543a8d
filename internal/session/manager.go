package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTTL is how long an idle session survives.
	DefaultTTL = 30 * time.Minute
	// DefaultMaxEntries bounds the number of live sessions.
	DefaultMaxEntries = 10000
)

// Manager owns every live session.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxEntries caps the number of tracked sessions. Once full, expired
// sessions are swept and then the least recently used one is evicted.
// A non-positive n keeps DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxEntries = n
		}
	}
}

// NewManager creates a manager; a non-positive ttl uses DefaultTTL.
func NewManager(ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the idle lifetime of a session.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Get returns a live session and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := m.now()
	if now.Sub(s.LastSeen()) > m.ttl {
		return nil, false
	}
	s.touch(now)
	return s, true
}

// Create starts a new session with a random ID, making room first when the
// manager is full.
func (m *Manager) Create() *Session {
	now := m.now()
	s := newSession(uuid.NewString(), now)

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) >= m.maxEntries {
		m.makeRoom(now)
	}
	m.sessions[s.ID] = s
	return s
}

// makeRoom drops expired sessions, then the least recently used one if the
// map is still full. Callers hold m.mu.
func (m *Manager) makeRoom(now time.Time) {
	m.sweepLocked(now)
	if len(m.sessions) < m.maxEntries {
		return
	}

	var (
		oldestID string
		oldest   time.Time
	)
	for id, s := range m.sessions {
		if seen := s.LastSeen(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(m.sessions, oldestID)
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. created reports which.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := m.Get(id); ok {
		return s, false
	}
	return m.Create(), true
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

func (m *Manager) sweepLocked(now time.Time) int {
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastSeen()) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions, expired ones included.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
