// Package api holds the HTTP middleware shared by every route: bearer authentication,
// role guards, request timeouts, prometheus metrics, rate limiting and CORS.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/linesmerrill/court-records-api/models"
)

// HealthCheck reports liveness and which storage backend is serving. ping may be nil
// for the in-memory backend.
func HealthCheck(backend string, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		if ping != nil {
			ctx, cancel := WithQueryTimeout(r.Context())
			defer cancel()
			if err := ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(models.HealthCheckResponse{Alive: status == http.StatusOK, Database: backend})
	}
}
