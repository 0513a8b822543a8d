package csvsource

import (
	"context"

	"github.com/MrSnakeDoc/pnptools/internal/csvcodec"
	"github.com/MrSnakeDoc/pnptools/internal/domain"
)

// MapResources parses catalog text and keeps the admissible rows, in file
// order. Row-level problems drop the row, never the catalog.
func MapResources(text string) []domain.Resource {
	_, rows := csvcodec.ParseWithHeader(text)

	out := make([]domain.Resource, 0, len(rows))
	for _, row := range rows {
		r := FromRow(row)
		if !r.Admissible() {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Source combines a loader and the mapper.
type Source struct {
	loader *Loader
}

func NewSource(loader *Loader) *Source {
	return &Source{loader: loader}
}

func (s *Source) Location() string {
	return s.loader.Location()
}

// Resources loads and maps the catalog.
func (s *Source) Resources(ctx context.Context) ([]domain.Resource, error) {
	text, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return MapResources(text), nil
}
