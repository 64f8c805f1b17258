package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/guivr/ohmydashboard-sub002/internal/guard"
	"github.com/guivr/ohmydashboard-sub002/internal/metrics"
)

// CSRF returns a middleware that rejects state-changing requests whose
// Origin (or Referer, as a fallback) is not in the trusted set. Safe
// methods pass through unchecked. Rejected requests never reach the
// wrapped handler.
func CSRF(trustedOrigins []string, recorder metrics.Recorder, logger *slog.Logger) func(http.Handler) http.Handler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if err := guard.ValidateOrigin(r, trustedOrigins); err != nil {
				recorder.IncSyncRejected(metrics.RejectForged)
				if logger != nil {
					logger.Warn("rejected cross-origin request",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("reason", err.Error()),
					)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "request origin is not trusted",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
