package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Count      *int   `json:"count,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the catalog, the shared store and sessions.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := d.Catalog.Store()
		resources := store.Count()
		lastReload := "never"
		if t := store.LastReload(); !t.IsZero() {
			lastReload = t.Format("2006-01-02 15:04:05")
		}

		catalogMode := "read-only"
		if d.Catalog.Writable() {
			catalogMode = "writable"
		}

		sessions := d.Sessions.Len()
		components := map[string]componentStatus{
			"catalog": {
				OK:         !store.LastReload().IsZero(),
				Count:      &resources,
				LastReload: lastReload,
				Mode:       catalogMode,
			},
			"redis": checkShared(r.Context(), d),
			"sessions": {
				OK:    true,
				Count: &sessions,
			},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if c, ok := components["catalog"]; ok && !c.OK {
		return "critical"
	}
	if c, ok := components["redis"]; ok && !c.OK {
		return "degraded"
	}
	return "operational"
}

func checkShared(ctx context.Context, d deps.Deps) componentStatus {
	if d.Shared == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "duplicates-checked-per-instance",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Shared.Ping(ctx); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "duplicates-checked-per-instance",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "shared",
		Impact: "duplicates-checked-across-instances",
	}
}
