package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

type fakeCatalog struct {
	mu        sync.Mutex
	records   []domain.Resource
	version   uint64
	snapshots int
}

func (c *fakeCatalog) Snapshot() ([]domain.Resource, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots++
	return append([]domain.Resource(nil), c.records...), c.version
}

func (c *fakeCatalog) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *fakeCatalog) add(r domain.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	c.version++
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(ttl time.Duration) (*Manager, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(ttl)
	m.now = c.now
	return m, c
}

func TestManager_GetOrCreate(t *testing.T) {
	m, _ := newTestManager(time.Minute)

	s, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again)

	_, created = m.GetOrCreate("unknown")
	assert.True(t, created)
	assert.Equal(t, 2, m.Len())
}

func TestManager_ExpiryAndSweep(t *testing.T) {
	m, c := newTestManager(time.Minute)

	idle := m.Create()
	active := m.Create()

	c.advance(50 * time.Second)
	_, ok := m.Get(active.ID)
	require.True(t, ok)

	c.advance(20 * time.Second)
	_, ok = m.Get(idle.ID)
	assert.False(t, ok, "idle session expired")

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, ok = m.Get(active.ID)
	assert.True(t, ok)
}

func TestManager_MaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(time.Hour, WithMaxEntries(2))
	m.now = c.now

	first := m.Create()
	c.advance(time.Second)
	second := m.Create()
	c.advance(time.Second)
	_, ok := m.Get(first.ID)
	require.True(t, ok)

	c.advance(time.Second)
	third := m.Create()
	assert.Equal(t, 2, m.Len())

	_, ok = m.Get(second.ID)
	assert.False(t, ok, "least recently used session evicted")
	_, ok = m.Get(first.ID)
	assert.True(t, ok)
	_, ok = m.Get(third.ID)
	assert.True(t, ok)
}

func TestManager_MaxEntriesSweepsExpiredFirst(t *testing.T) {
	m, c := newTestManager(time.Minute)
	m.maxEntries = 2

	expired := m.Create()
	c.advance(2 * time.Minute)
	live := m.Create()
	c.advance(time.Second)
	_, ok := m.Get(live.ID)
	require.True(t, ok)

	m.Create()
	assert.Equal(t, 2, m.Len())
	_, ok = m.Get(expired.ID)
	assert.False(t, ok)
	_, ok = m.Get(live.ID)
	assert.True(t, ok)
}

func TestNewManager_DefaultTTL(t *testing.T) {
	m := NewManager(0, WithMaxEntries(0))
	assert.Equal(t, DefaultTTL, m.TTL())
	assert.Equal(t, DefaultMaxEntries, m.maxEntries)
}

func TestSession_QueryState(t *testing.T) {
	n := domain.NewNormalizer(domain.DefaultCategoryRules(domain.EditionPnP))
	s := newSession("id", time.Now())

	assert.Equal(t, domain.NewQueryState(), s.Query())

	got := s.UpdateQuery(func(q domain.QueryState) domain.QueryState {
		return q.WithCategory("geeklist", n).WithSearch("  Solo ")
	})
	assert.Equal(t, "PnP Geeklists", got.Category)
	assert.Equal(t, "solo", got.Search)
	assert.Equal(t, got, s.Query())
}

func TestSession_DuplicateIndexFollowsCatalogVersion(t *testing.T) {
	n := domain.NewNormalizer(nil)
	cat := &fakeCatalog{records: []domain.Resource{{Title: "A", Link: "https://a.test"}}, version: 1}
	s := newSession("id", time.Now())

	first := s.DuplicateIndex(cat, n)
	second := s.DuplicateIndex(cat, n)
	assert.Same(t, first, second, "index is built once per snapshot")
	assert.Equal(t, 1, cat.snapshots)

	probe := submission.Payload{Title: "B", Category: "x", Link: "https://b.test"}
	assert.Nil(t, first.Find(probe))

	cat.add(domain.Resource{Title: "B", Link: "https://b.test"})
	rebuilt := s.DuplicateIndex(cat, n)
	assert.NotSame(t, first, rebuilt)
	assert.NotNil(t, rebuilt.Find(probe))
}
