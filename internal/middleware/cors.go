package middleware

import (
	"net/http"
	"strings"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
)

// CORS sets cross-origin headers from the cors_origins setting, a comma
// separated list where "*" allows any origin. When the configuration cannot
// be read, fallbackOrigin is the only allowed origin.
func CORS(config SnapshotProvider, fallbackOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(origin, allowedOrigins(r, config, fallbackOrigin)) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowedOrigins(r *http.Request, config SnapshotProvider, fallback string) string {
	snap, err := config.Snapshot(r.Context())
	if err != nil {
		debug.Warning("CORS origins unavailable, using %s: %v", fallback, err)
		return fallback
	}
	return snap.String(settings.KeyCORSOrigins, fallback)
}

func originAllowed(origin, list string) bool {
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimSpace(o)
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
