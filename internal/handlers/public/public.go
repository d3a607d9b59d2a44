package public

import (
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
)

// Handler serves the read-only policy endpoints used by the web client.
type Handler struct {
	reputationService *services.ReputationService
	priceService      *services.PriceTrustService
}

// NewHandler creates a new public handler
func NewHandler(reputationService *services.ReputationService, priceService *services.PriceTrustService) *Handler {
	return &Handler{
		reputationService: reputationService,
		priceService:      priceService,
	}
}

// GetUserReputation returns a user's level and progress to the next tier.
func (h *Handler) GetUserReputation(w http.ResponseWriter, r *http.Request) {
	id, ok := handlers.UserIDVar(w, r)
	if !ok {
		return
	}
	progress, err := h.reputationService.UserLevel(r.Context(), id)
	if err != nil {
		handlers.RespondServiceError(w, err, "get reputation")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, progress)
}

// GetPriceRules returns the rules the price submission form enforces.
func (h *Handler) GetPriceRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.priceService.ValidationRules(r.Context())
	if err != nil {
		handlers.RespondServiceError(w, err, "get price rules")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, rules)
}

// EvaluatePrice runs the trust predicates over one observation.
func (h *Handler) EvaluatePrice(w http.ResponseWriter, r *http.Request) {
	var obs models.PriceObservation
	if err := httputil.ParseJSONBody(r, &obs); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if obs.SubmittedAt.IsZero() || obs.Price < 0 || obs.VerifiedCount < 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "submitted_at is required and counts and prices cannot be negative")
		return
	}
	report, err := h.priceService.Evaluate(r.Context(), obs)
	if err != nil {
		handlers.RespondServiceError(w, err, "evaluate price")
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, report)
}
