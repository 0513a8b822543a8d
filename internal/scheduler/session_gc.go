package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/session"
)

// DefaultSessionGCInterval is used when no interval is configured.
const DefaultSessionGCInterval = 5 * time.Minute

// SessionCollector drops idle sessions periodically.
type SessionCollector struct {
	sessions *session.Manager
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
}

func NewSessionCollector(sessions *session.Manager, log logger.Logger, interval time.Duration) *SessionCollector {
	if interval <= 0 {
		interval = DefaultSessionGCInterval
	}
	return &SessionCollector{
		sessions: sessions,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic collection.
func (sc *SessionCollector) Start(ctx context.Context) {
	ticker := time.NewTicker(sc.interval)
	sc.doneCh = make(chan struct{})
	go func() {
		defer close(sc.doneCh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sc.Collect()
			case <-sc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the loop and waits for it.
func (sc *SessionCollector) Stop() {
	sc.stopOnce.Do(func() { close(sc.stopCh) })
	if sc.doneCh != nil {
		<-sc.doneCh
	}
}

// Collect removes expired sessions and returns how many were dropped.
func (sc *SessionCollector) Collect() int {
	removed := sc.sessions.Sweep()
	if removed > 0 {
		sc.logger.Info("expired sessions collected",
			logger.Int("removed", removed),
			logger.Int("remaining", sc.sessions.Len()))
	} else {
		sc.logger.Debug("no sessions to collect")
	}
	return removed
}
