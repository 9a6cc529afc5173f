package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

// Health handles GET /health. Each named check is pinged with a short
// deadline; any failure turns the response into a 503.
func Health(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{}
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				result[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}

		body := map[string]any{"status": "ok", "checks": result}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}
