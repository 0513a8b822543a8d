package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/pnptools/internal/domain"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
)

type categoriesResponse struct {
	Categories []domain.CategoryCount `json:"categories"`
	Labels     []string               `json:"labels"`
	Total      int                    `json:"total"`
}

// Categories lists the categories present in the catalog with their
// counts, plus the canonical labels a public submission may use.
func Categories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := d.Catalog.Store().All()
		counts := domain.CountCategories(records, d.Normalizer)
		if counts == nil {
			counts = []domain.CategoryCount{}
		}

		writeJSON(w, http.StatusOK, categoriesResponse{
			Categories: counts,
			Labels:     d.Validator.Categories(),
			Total:      len(records),
		})
	}
}
