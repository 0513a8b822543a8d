package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/pnptools/internal/httpserver/mw"
)

func init() { Register(registerSubmissions) }

func registerSubmissions(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/api/submissions/recent", handlers.RecentSubmissions(d))
}
