package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
)

// ErrReadOnly is returned by Add when the catalog has no writable file.
var ErrReadOnly = errors.New("catalog is read-only")

// Source yields the full record set of the catalog.
type Source interface {
	Resources(ctx context.Context) ([]domain.Resource, error)
	Location() string
}

// Service ties the store to its source and, for local files, an appender.
type Service struct {
	store    *Store
	source   Source
	appender *Appender
	log      logger.Logger
}

// NewService wires a catalog. appender may be nil for remote catalogs.
func NewService(store *Store, source Source, appender *Appender, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, source: source, appender: appender, log: log}
}

func (s *Service) Store() *Store {
	return s.store
}

// Writable reports whether Add can persist records.
func (s *Service) Writable() bool {
	return s.appender != nil
}

// Reload replaces the store contents from the source. On failure the
// previous records stay in place.
func (s *Service) Reload(ctx context.Context) (int, error) {
	records, err := s.source.Resources(ctx)
	if err != nil {
		return 0, err
	}

	s.store.Replace(records)
	s.log.Info("catalog reloaded",
		logger.String("source", s.source.Location()),
		logger.Int("resources", len(records)),
	)
	return len(records), nil
}

// Add persists r to the file, then makes it visible in the store.
func (s *Service) Add(r domain.Resource) error {
	r = r.Trimmed()
	if !r.Admissible() {
		return domain.ErrNotAdmissible
	}
	if s.appender == nil {
		return ErrReadOnly
	}

	if err := s.appender.Append(r); err != nil {
		return fmt.Errorf("persist resource: %w", err)
	}
	return s.store.Append(r)
}
