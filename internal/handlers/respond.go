// Package handlers holds the HTTP handlers of the policy engine API and the
// error mapping they share.
package handlers

import (
	"errors"
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// RespondServiceError maps a service error onto a status code. Storage and
// configuration failures are never described to the caller.
func RespondServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrInvalidInput):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, settings.ErrConfigUnavailable),
		errors.Is(err, settings.ErrStoreClosed),
		errors.Is(err, services.ErrAttemptNotRecorded):
		debug.Warning("Failed to %s: %v", action, err)
		httputil.RespondTryAgain(w)
	default:
		debug.Error("Failed to %s: %v", action, err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// UserIDVar parses the {id} route variable. It writes a 400 and returns false
// when the value is not a UUID.
func UserIDVar(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
