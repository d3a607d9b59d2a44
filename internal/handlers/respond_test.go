package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		hidden string
	}{
		{"not found", fmt.Errorf("user x: %w", models.ErrNotFound), http.StatusNotFound, "user x"},
		{"invalid input", fmt.Errorf("setting a: %w", models.ErrInvalidInput), http.StatusBadRequest, ""},
		{"config unavailable", fmt.Errorf("%w: %w", settings.ErrConfigUnavailable, errors.New("pq: password authentication failed")), http.StatusServiceUnavailable, "pq:"},
		{"attempt not recorded", fmt.Errorf("%w: timeout", services.ErrAttemptNotRecorded), http.StatusServiceUnavailable, "timeout"},
		{"store closed", settings.ErrStoreClosed, http.StatusServiceUnavailable, "closed"},
		{"other", errors.New("pq: relation does not exist"), http.StatusInternalServerError, "relation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RespondServiceError(w, tt.err, "do things")
			assert.Equal(t, tt.status, w.Code)
			if tt.hidden != "" {
				assert.NotContains(t, w.Body.String(), tt.hidden)
			}
		})
	}
}

func TestUserIDVar(t *testing.T) {
	r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "not-a-uuid"})
	w := httptest.NewRecorder()
	_, ok := UserIDVar(w, r)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "4c7f2a5e-8a0f-4a67-9f43-3c1f7d2b9e10"})
	id, ok := UserIDVar(httptest.NewRecorder(), r)
	assert.True(t, ok)
	assert.Equal(t, "4c7f2a5e-8a0f-4a67-9f43-3c1f7d2b9e10", id.String())
}
