package http

import (
	"context"
	"net/http"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness for the service.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReadinessHandler pings each named dependency and answers 503 naming the
// first one that fails.
func ReadinessHandler(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, ping := range checks {
			if err := ping(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "dependency_unavailable", name+" unavailable")
				return
			}
		}
		HealthHandler(w, r)
	}
}
