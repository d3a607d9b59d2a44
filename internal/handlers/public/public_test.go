package public

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/testutil"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type env struct {
	router *mux.Router
	users  *testutil.MemoryUserStore
	src    *testutil.MockSettingsSource
}

func newEnv(t *testing.T, values map[string]string) *env {
	t.Helper()
	e := &env{users: testutil.NewMemoryUserStore(), src: testutil.NewMockSettingsSource(values)}
	clock := testutil.NewFakeClock(now)
	store := settings.New(e.src, settings.Options{TTL: time.Hour, Clock: clock})
	t.Cleanup(store.Close)

	h := NewHandler(services.NewReputationService(e.users, store, time.Second), services.NewPriceTrustService(store, clock))
	e.router = mux.NewRouter()
	e.router.HandleFunc("/users/{id}/reputation", h.GetUserReputation).Methods(http.MethodGet)
	e.router.HandleFunc("/prices/rules", h.GetPriceRules).Methods(http.MethodGet)
	e.router.HandleFunc("/prices/evaluate", h.EvaluatePrice).Methods(http.MethodPost)
	return e
}

func (e *env) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestHandler_GetUserReputation(t *testing.T) {
	e := newEnv(t, map[string]string{"level_bronze": "100", "level_silver": "500"})
	id := e.users.CreateUser()
	_, err := e.users.AddReputationPoints(t.Context(), id, 300)
	require.NoError(t, err)

	w := e.do(http.MethodGet, "/users/"+id.String()+"/reputation", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"level":"Bronze","points":300,"next_level":"Silver","points_to_next_level":200,"progress":50}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/users/"+uuid.New().String()+"/reputation", "").Code)
}

func TestHandler_GetPriceRules(t *testing.T) {
	e := newEnv(t, map[string]string{"require_receipt": "true", "allow_anonymous_prices": "true", "max_price_deviation": "25"})

	w := e.do(http.MethodGet, "/prices/rules", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"require_receipt":true,"allow_anonymous":true,"max_deviation_percent":25}`, w.Body.String())
}

func TestHandler_ConfigUnavailable(t *testing.T) {
	e := newEnv(t, nil)
	e.src.SetLoadError(errors.New("pq: the database system is starting up"))

	w := e.do(http.MethodGet, "/prices/rules", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestHandler_EvaluatePrice(t *testing.T) {
	e := newEnv(t, map[string]string{"price_expiry_days": "7", "verification_threshold": "3", "max_price_deviation": "50"})

	body := `{"submitted_at":"2026-05-20T10:00:00Z","verified_count":4,"price":2.5,"average_price":2.0}`
	w := e.do(http.MethodPost, "/prices/evaluate", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stale":true,"verified":true,"within_deviation":true}`, w.Body.String())

	body = `{"submitted_at":"2026-05-31T10:00:00Z","verified_count":0,"price":9,"average_price":2}`
	w = e.do(http.MethodPost, "/prices/evaluate", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stale":false,"verified":false,"within_deviation":false}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/prices/evaluate", `{"price":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/prices/evaluate", `[`).Code)
}
