package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/pnptools/internal/catalog"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	redisstore "github.com/MrSnakeDoc/pnptools/internal/store/redis"
)

// DuplicateSyncer pushes the duplicate keys of the in-memory catalog to
// Redis so every instance rejects the same duplicates.
type DuplicateSyncer struct {
	store   *redisstore.Store
	catalog *catalog.Store
	logger  logger.Logger
}

func NewDuplicateSyncer(
	store *redisstore.Store,
	cat *catalog.Store,
	log logger.Logger,
) *DuplicateSyncer {
	return &DuplicateSyncer{
		store:   store,
		catalog: cat,
		logger:  log,
	}
}

// Sync replaces the shared keys with those of the current catalog.
func (ds *DuplicateSyncer) Sync(ctx context.Context) error {
	records := ds.catalog.All()
	if err := ds.store.SyncDuplicates(ctx, records); err != nil {
		return err
	}

	ds.logger.Debug("synced duplicate keys to redis",
		logger.Int("resources", len(records)))
	return nil
}
