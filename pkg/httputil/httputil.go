package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RespondWithError sends an error response with the given status code and message
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondTryAgain reports a transient condition without exposing its cause.
func RespondTryAgain(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "5")
	RespondWithJSON(w, http.StatusServiceUnavailable, ErrorResponse{
		Error:   "temporarily_unavailable",
		Message: "Something went wrong on our side. Please try again in a moment.",
	})
}

// RespondWithJSON sends a JSON response with the given status code and data
func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		debug.Error("Failed to encode JSON response: %v", err)
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
