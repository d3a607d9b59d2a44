package auth

import (
	"errors"
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
	"github.com/google/uuid"
)

// LoginDecisionRequest is sent by the credential service after it has checked
// a password.
type LoginDecisionRequest struct {
	UserID           uuid.UUID `json:"user_id"`
	CredentialsValid bool      `json:"credentials_valid"`
}

// Handler exposes the lockout policy to the credential service.
type Handler struct {
	lockoutService *services.LockoutService
}

// NewHandler creates a new login decision handler
func NewHandler(lockoutService *services.LockoutService) *Handler {
	return &Handler{lockoutService: lockoutService}
}

// LoginDecision records the attempt and says whether the login may proceed.
// A locked account is rejected even with valid credentials.
func (h *Handler) LoginDecision(w http.ResponseWriter, r *http.Request) {
	var req LoginDecisionRequest
	if err := httputil.ParseJSONBody(r, &req); err != nil || req.UserID == uuid.Nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	decision, err := h.lockoutService.EvaluateLogin(r.Context(), req.UserID, req.CredentialsValid)
	if errors.Is(err, models.ErrNotFound) {
		// Unknown accounts look like bad credentials.
		httputil.RespondWithJSON(w, http.StatusUnauthorized, decision)
		return
	}
	if err != nil {
		handlers.RespondServiceError(w, err, "evaluate login")
		return
	}

	status := http.StatusOK
	switch {
	case decision.Locked:
		status = http.StatusLocked
	case !decision.Allowed:
		status = http.StatusUnauthorized
	}
	httputil.RespondWithJSON(w, status, decision)
}
