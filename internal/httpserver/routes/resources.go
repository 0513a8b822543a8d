package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/mw"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	sessions := mw.Session(d.Sessions)

	// one bucket set shared by both submission endpoints
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.SubmitRateBurst,
		RefillPerIPPerMin: d.SubmitRatePerMin,
		MaxEntries:        10000,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
		Now:               d.TimeNow,
	})

	r.With(sessions).Get("/api/resources", handlers.QueryResources(d))
	r.With(limit, sessions).Post("/api/resources", handlers.CreateResource(d))
	r.With(limit, sessions).Post("/api/resources/check", handlers.CheckResource(d))
	r.Get("/api/categories", handlers.Categories(d))
}
