package user

import (
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
)

// UserHandler handles administrator actions on user accounts.
type UserHandler struct {
	lockoutService    *services.LockoutService
	reputationService *services.ReputationService
}

// NewUserHandler creates a new admin user handler
func NewUserHandler(lockoutService *services.LockoutService, reputationService *services.ReputationService) *UserHandler {
	return &UserHandler{
		lockoutService:    lockoutService,
		reputationService: reputationService,
	}
}

// GetLockStatus reports whether an account is locked.
func (h *UserHandler) GetLockStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.UserIDVar(w, r)
	if !ok {
		return
	}
	status, err := h.lockoutService.CheckLockStatus(r.Context(), id)
	if err != nil {
		handlers.RespondServiceError(w, err, "check lock status")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, status)
}

// UnlockUser clears the failed attempt counter and any lock.
func (h *UserHandler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.UserIDVar(w, r)
	if !ok {
		return
	}
	if err := h.lockoutService.Unlock(r.Context(), id); err != nil {
		handlers.RespondServiceError(w, err, "unlock user")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User unlocked"})
}

// AwardPoints credits a user for a contribution. Unknown actions are
// rejected; storage failures are not, since awards are best effort.
func (h *UserHandler) AwardPoints(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.UserIDVar(w, r)
	if !ok {
		return
	}
	var request struct {
		Action string `json:"action"`
	}
	if err := httputil.ParseJSONBody(r, &request); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	action, err := services.ParseReputationAction(request.Action)
	if err != nil {
		handlers.RespondServiceError(w, err, "award points")
		return
	}

	awarded := h.reputationService.AddPoints(r.Context(), id, action)
	httputil.RespondWithJSON(w, http.StatusOK, map[string]int{"awarded": awarded})
}
