package redis

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

func newTestStore(t *testing.T, recent int) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	n := domain.NewNormalizer(domain.DefaultCategoryRules(domain.EditionPnP))
	return NewStore(client, n, recent), mr
}

func TestSyncAndFindDuplicate(t *testing.T) {
	s, mr := newTestStore(t, 0)
	ctx := t.Context()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.SyncDuplicates(ctx, []domain.Resource{
		{Category: "PnP Tools", Title: "Card Maker", Link: "https://site.com/game/"},
		{Category: "Geeklists", Title: "Solo List", Link: "https://bgg.test/list/1"},
	}))

	dup, err := s.FindDuplicate(ctx, submission.Payload{Title: "x", Category: "y", Link: "https://SITE.com/game#top"})
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, submission.ReasonSameLink, dup.Reason)
	assert.Equal(t, "Card Maker", dup.Existing)

	dup, err = s.FindDuplicate(ctx, submission.Payload{Title: "solo  list", Category: "pnp geeklist", Link: "https://new.test"})
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, submission.ReasonSameTitleAndCategory, dup.Reason)

	dup, err = s.FindDuplicate(ctx, submission.Payload{Title: "New", Category: "PnP Tools", Link: "https://new.test"})
	require.NoError(t, err)
	assert.Nil(t, dup)

	// A later sync replaces the keys.
	require.NoError(t, s.SyncDuplicates(ctx, nil))
	assert.False(t, mr.Exists(KeyDedupLinks))
}

func TestRememberResource(t *testing.T) {
	s, _ := newTestStore(t, 0)
	ctx := t.Context()

	r := domain.Resource{Category: "PnP Tools", Title: "First", Link: "https://a.test"}
	require.NoError(t, s.RememberResource(ctx, r))
	require.NoError(t, s.RememberResource(ctx, domain.Resource{Category: "Other", Title: "Second", Link: "https://a.test#dup"}))

	dup, err := s.FindDuplicate(ctx, submission.FromResource(r))
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, "First", dup.Existing, "existing entries are not overwritten")
}

func TestPushAndRecent(t *testing.T) {
	s, mr := newTestStore(t, 3)
	ctx := t.Context()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Push(ctx, submission.Record{
			ID:          fmt.Sprintf("id-%d", i),
			Payload:     submission.Payload{Title: fmt.Sprintf("T%d", i)},
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	recs, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "id-4", recs[0].ID)
	assert.Equal(t, "T4", recs[0].Payload.Title)
	assert.True(t, recs[0].SubmittedAt.Equal(base.Add(4*time.Minute)))

	mr.Del(SubmissionKey("id-3"))
	recs, err = s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 1, "expired records are skipped")
	assert.Equal(t, "id-4", recs[0].ID)

	assert.Error(t, s.Push(ctx, submission.Record{}))
}

func TestExtractSubmissionID(t *testing.T) {
	id, err := ExtractSubmissionID(SubmissionKey("abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	_, err = ExtractSubmissionID("pnp:submission:")
	assert.Error(t, err)
	_, err = ExtractSubmissionID("other:key:abc")
	assert.Error(t, err)
}
