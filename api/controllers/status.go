package controllers

import (
	"net/http"
	"time"

	"github.com/powercore-shop/storefront/api/responses"
	"github.com/powercore-shop/storefront/internal/health"
	"github.com/powercore-shop/storefront/pkg/config"
)

// Status reports client liveness plus the last observed backend availability.
func Status(cfg *config.Config, poller *health.Poller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PowerCore-Env", cfg.App.Env)

		payload := map[string]any{"status": "live"}
		if poller != nil {
			snap := poller.Current()
			backend := map[string]any{"status": snap.Status.String()}
			if !snap.CheckedAt.IsZero() {
				backend["checked_at"] = snap.CheckedAt.UTC().Format(time.RFC3339)
			}
			if snap.LastError != "" {
				backend["last_error"] = snap.LastError
			}
			payload["backend"] = backend
		}
		responses.WriteSuccess(w, payload)
	}
}
