package handlers

import (
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/submission"
)

const defaultRecentPage = 20

type recentResponse struct {
	Submissions []submission.Record `json:"submissions"`
}

// RecentSubmissions lists the latest accepted submissions, newest first.
// ?limit=N caps the page, up to submission.DefaultRecentLimit.
func RecentSubmissions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRecentPage
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer."})
				return
			}
			limit = min(n, submission.DefaultRecentLimit)
		}

		records, err := d.Recent.Recent(r.Context(), limit)
		if err != nil {
			d.Logger.Error("failed to list submissions", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgServerError, Detail: err.Error()})
			return
		}
		if records == nil {
			records = []submission.Record{}
		}
		writeJSON(w, http.StatusOK, recentResponse{Submissions: records})
	}
}
