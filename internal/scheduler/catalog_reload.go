package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/catalog"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
)

// CatalogReloader reloads the catalog on a ticker and whenever something
// sends on its trigger channel (the reload endpoint, the file watcher).
type CatalogReloader struct {
	catalog       *catalog.Service
	syncer        *DuplicateSyncer
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
	doneCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a reloader. A non-positive interval disables
// periodic reloads; syncer may be nil.
func NewCatalogReloader(
	svc *catalog.Service,
	syncer *DuplicateSyncer,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		catalog:       svc,
		syncer:        syncer,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once, failing if that load fails, then keeps
// reloading in the background until ctx is done or Stop is called.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	var tick <-chan time.Time
	var ticker *time.Ticker
	if cr.interval > 0 {
		ticker = time.NewTicker(cr.interval)
		tick = ticker.C
	}

	cr.doneCh = make(chan struct{})
	go func() {
		defer close(cr.doneCh)
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tick:
				cr.reloadLogged(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.reloadLogged(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop ends the background loop and waits for it.
func (cr *CatalogReloader) Stop() {
	cr.stopOnce.Do(func() { close(cr.stopCh) })
	if cr.doneCh != nil {
		<-cr.doneCh
	}
}

// Reload replaces the catalog contents and refreshes the shared duplicate
// keys. A failed shared sync is logged, never returned.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	if _, err := cr.catalog.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if cr.syncer != nil {
		if err := cr.syncer.Sync(ctx); err != nil {
			cr.logger.Warn("failed to sync duplicate keys to redis", logger.Error(err))
		}
	}
	return nil
}

func (cr *CatalogReloader) reloadLogged(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload catalog, keeping previous records", logger.Error(err))
	}
}
