package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/models"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopInvalidator struct{ calls int }

func (n *nopInvalidator) Invalidate() { n.calls++ }

func newRouter(t *testing.T) (*mux.Router, *testutil.MemorySettingsRepo, *nopInvalidator) {
	t.Helper()
	repo := testutil.DefaultSettingsRepo()
	cache := &nopInvalidator{}
	h := NewSettingsHandler(services.NewSettingsService(repo, cache, nil, nil, "test"))

	r := mux.NewRouter()
	r.HandleFunc("/settings", h.UpdateSettings).Methods(http.MethodPut)
	r.HandleFunc("/settings/{category}", h.ListByCategory).Methods(http.MethodGet)
	r.HandleFunc("/settings/key/{key}", h.UpdateSetting).Methods(http.MethodPut)
	return r, repo, cache
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSettingsHandler_ListByCategory(t *testing.T) {
	r, _, _ := newRouter(t)

	w := do(r, http.MethodGet, "/settings/email", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.SettingEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	for _, e := range entries {
		if e.Key == "smtp_password" {
			assert.Equal(t, models.MaskedValue, *e.Value)
		}
	}

	w = do(r, http.MethodGet, "/settings/api", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/settings/billing", "").Code)
}

func TestSettingsHandler_UpdateSetting(t *testing.T) {
	r, repo, cache := newRouter(t)

	w := do(r, http.MethodPut, "/settings/key/max_login_attempts", `{"value":"3"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", repo.Value("max_login_attempts"))
	assert.Equal(t, 1, cache.calls)

	w = do(r, http.MethodPut, "/settings/key/max_login_attempts", `{"value":"three"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "max_login_attempts")

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPut, "/settings/key/nope", `{"value":"1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/settings/key/site_name", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/settings/key/site_name", `{"value":`).Code)

	w = do(r, http.MethodPut, "/settings/key/site_name", `{"value":""}`)
	assert.Equal(t, http.StatusOK, w.Code, "empty strings are valid values")
	assert.Equal(t, "", repo.Value("site_name"))
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	r, repo, _ := newRouter(t)

	w := do(r, http.MethodPut, "/settings", `{"settings":[{"key":"site_name","value":"Prices"},{"key":"maintenance_mode","value":"true"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Prices", repo.Value("site_name"))
	assert.Equal(t, "true", repo.Value("maintenance_mode"))

	w = do(r, http.MethodPut, "/settings", `{"settings":[{"key":"site_name","value":"Other"},{"key":"maintenance_mode","value":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Prices", repo.Value("site_name"))
}
