package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MrSnakeDoc/pnptools/internal/catalog"
	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/session"
	"github.com/MrSnakeDoc/pnptools/internal/sources/csvsource"
	redisstore "github.com/MrSnakeDoc/pnptools/internal/store/redis"
)

const header = "CATEGORY,TITLE,CREATOR,DESCRIPTION,LINK,IMAGE\n"

func newCatalog(t *testing.T, content string) (*catalog.Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resources.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	svc := catalog.NewService(
		catalog.NewStore(),
		csvsource.NewSource(csvsource.NewLoader(path, nil)),
		catalog.NewAppender(path),
		logger.Nop(),
	)
	return svc, path
}

func TestCatalogReloader_ManualTrigger(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc, path := newCatalog(t, header+"PnP Tools,A,,,https://a.test,\n")
	trigger := make(chan struct{}, 1)

	cr := NewCatalogReloader(svc, nil, logger.Nop(), 0, trigger)
	require.NoError(t, cr.Start(t.Context()))
	defer cr.Stop()

	require.Equal(t, 1, svc.Store().Count())

	require.NoError(t, os.WriteFile(path, []byte(header+"PnP Tools,A,,,https://a.test,\nPnP Tools,B,,,https://b.test,\n"), 0o644))
	trigger <- struct{}{}

	assert.Eventually(t, func() bool { return svc.Store().Count() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestCatalogReloader_KeepsRecordsOnFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc, path := newCatalog(t, header+"PnP Tools,A,,,https://a.test,\n")
	cr := NewCatalogReloader(svc, nil, logger.Nop(), 0, nil)
	require.NoError(t, cr.Start(t.Context()))
	defer cr.Stop()

	require.NoError(t, os.Remove(path))
	assert.Error(t, cr.Reload(t.Context()))
	assert.Equal(t, 1, svc.Store().Count())
}

func TestCatalogReloader_InitialFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := catalog.NewService(
		catalog.NewStore(),
		csvsource.NewSource(csvsource.NewLoader(filepath.Join(t.TempDir(), "missing.csv"), nil)),
		nil,
		logger.Nop(),
	)
	cr := NewCatalogReloader(svc, nil, logger.Nop(), time.Hour, nil)

	err := cr.Start(t.Context())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLoad)
	cr.Stop()
}

func TestCatalogReloader_SyncsDuplicates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	svc, _ := newCatalog(t, header+"PnP Tools,A,,,https://a.test/,\n")
	n := domain.NewNormalizer(domain.DefaultCategoryRules(domain.EditionPnP))
	store := redisstore.NewStore(client, n, 0)

	syncer := NewDuplicateSyncer(store, svc.Store(), logger.Nop())
	cr := NewCatalogReloader(svc, syncer, logger.Nop(), 0, nil)
	require.NoError(t, cr.Start(t.Context()))
	defer cr.Stop()

	got := mr.HGet(redisstore.KeyDedupLinks, "https://a.test/")
	assert.Equal(t, "A", got)
}

func TestCatalogWatcher_TriggersOnWrite(t *testing.T) {
	_, path := newCatalog(t, header)

	trigger := make(chan struct{}, 1)
	cw := NewCatalogWatcher(path, trigger, 20*time.Millisecond, logger.Nop())
	require.NoError(t, cw.Start(t.Context()))
	defer cw.Stop()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.txt"), []byte("x"), 0o644))
	select {
	case <-trigger:
		t.Fatal("unexpected trigger for an unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	require.NoError(t, catalog.NewAppender(path).Append(domain.Resource{Title: "B", Link: "https://b.test"}))

	select {
	case <-trigger:
	case <-time.After(2 * time.Second):
		t.Fatal("no reload requested after the catalog changed")
	}
}

func TestCatalogWatcher_MissingDirectory(t *testing.T) {
	cw := NewCatalogWatcher(filepath.Join(t.TempDir(), "nope", "resources.csv"), make(chan struct{}, 1), 0, logger.Nop())
	assert.Error(t, cw.Start(t.Context()))
	cw.Stop()
}

func TestSessionCollector_Collect(t *testing.T) {
	defer goleak.VerifyNone(t)

	sessions := session.NewManager(time.Millisecond)
	sessions.Create()
	sessions.Create()
	time.Sleep(5 * time.Millisecond)
	sessions.Create()

	sc := NewSessionCollector(sessions, logger.Nop(), time.Hour)
	sc.Start(t.Context())
	defer sc.Stop()

	// The fresh session may or may not have expired by now.
	removed := sc.Collect()
	assert.GreaterOrEqual(t, removed, 2)
	assert.LessOrEqual(t, sessions.Len(), 1)
}
