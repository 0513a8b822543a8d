package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/pnptools/internal/httpserver/deps"
	"github.com/MrSnakeDoc/pnptools/internal/logger"
	"github.com/MrSnakeDoc/pnptools/internal/utils"
)

// Reload triggers a manual catalog reload.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := utils.ClientIP(r, d.TrustProxy)

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual catalog reload triggered via endpoint",
				logger.String("client_ip", client))
			writeText(w, http.StatusAccepted, "✅ Reload triggered successfully\n")
		default:
			d.Logger.Warn("catalog reload already pending",
				logger.String("client_ip", client))
			writeText(w, http.StatusTooManyRequests, "⏳ Reload already in progress, please wait\n")
		}
	}
}
