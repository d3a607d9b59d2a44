package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/jwt"
)

// SnapshotProvider hands out configuration snapshots. *settings.Store implements it.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (*settings.Snapshot, error)
}

const maintenanceMessage = "The site is undergoing maintenance. Please check back shortly."

// MaintenanceGate rejects requests with 503 while maintenance_mode is on.
// Administrators pass through so they can turn it off again. When the
// configuration cannot be read the request is answered with a retryable 503.
func MaintenanceGate(config SnapshotProvider, validator *jwt.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap, err := config.Snapshot(r.Context())
			if err != nil {
				if errors.Is(err, settings.ErrConfigUnavailable) {
					debug.Warning("Maintenance check skipped, configuration unavailable: %v", err)
				} else {
					debug.Error("Maintenance check failed: %v", err)
				}
				httputil.RespondTryAgain(w)
				return
			}

			if !settings.GeneralSettingsFrom(snap).MaintenanceMode || isAdmin(r, validator) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Retry-After", "300")
			httputil.RespondWithJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{
				Error:   "maintenance",
				Message: maintenanceMessage,
			})
		})
	}
}

func isAdmin(r *http.Request, validator *jwt.Validator) bool {
	if validator == nil {
		return false
	}
	token := TokenFromRequest(r)
	if token == "" {
		return false
	}
	claims, err := validator.Parse(token)
	return err == nil && claims.Role == RoleAdmin
}
