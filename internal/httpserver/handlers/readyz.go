package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Resources int  `json:"resources"`
}

// Readyz reports ready once the catalog has loaded at least once.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := d.Catalog.Store()
		resp := readyzResponse{
			Ready:     !store.LastReload().IsZero(),
			Resources: store.Count(),
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
