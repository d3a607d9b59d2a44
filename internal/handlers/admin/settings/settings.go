package settings

import (
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
	"github.com/gorilla/mux"
)

// Categories that can be listed.
var Categories = []string{"general", "auth", "email", "prices", "reputation", "api"}

// SettingsHandler handles system settings requests
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new system settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// ListByCategory returns one category with sensitive values masked.
func (h *SettingsHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	if !knownCategory(category) {
		httputil.RespondWithError(w, http.StatusNotFound, "Unknown settings category")
		return
	}

	entries, err := h.settingsService.ListByCategory(r.Context(), category)
	if err != nil {
		handlers.RespondServiceError(w, err, "list settings")
		return
	}
	if entries == nil {
		entries = []models.SettingEntry{}
	}
	httputil.RespondWithJSON(w, http.StatusOK, entries)
}

// UpdateSetting updates one setting
func (h *SettingsHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var request struct {
		Value *string `json:"value"`
	}
	if err := httputil.ParseJSONBody(r, &request); err != nil || request.Value == nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.settingsService.UpdateSetting(r.Context(), key, *request.Value); err != nil {
		handlers.RespondServiceError(w, err, "update setting")
		return
	}

	debug.Info("Setting %s updated", key)
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Setting updated successfully"})
}

// UpdateSettings saves a form of settings in one transaction
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Settings []models.SettingUpdate `json:"settings"`
	}
	if err := httputil.ParseJSONBody(r, &request); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.settingsService.UpdateSettings(r.Context(), request.Settings); err != nil {
		handlers.RespondServiceError(w, err, "update settings")
		return
	}

	debug.Info("Saved %d settings", len(request.Settings))
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Settings updated successfully"})
}

func knownCategory(c string) bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}
