package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adminsettings "github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/admin/settings"
	adminuser "github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/admin/user"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/auth"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/public"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/middleware"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/services"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/settings"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/testutil"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/jwt"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type server struct {
	router *mux.Router
	src    *testutil.MockSettingsSource
	store  *settings.Store
	users  *testutil.MemoryUserStore
	repo   *testutil.MemorySettingsRepo
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{
		src:   testutil.NewMockSettingsSource(map[string]string{"maintenance_mode": "false", "cors_origins": "https://pricefeed.app"}),
		users: testutil.NewMemoryUserStore(),
		repo:  testutil.DefaultSettingsRepo(),
	}
	clock := testutil.NewFakeClock(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC))
	s.store = settings.New(s.src, settings.Options{TTL: time.Hour, Clock: clock})
	t.Cleanup(s.store.Close)

	lockout := services.NewLockoutService(s.users, s.store, clock, time.Second)
	reputation := services.NewReputationService(s.users, s.store, time.Second)
	s.router = mux.NewRouter()
	SetupRoutes(s.router, Dependencies{
		Config:         s.store,
		Validator:      jwt.NewValidator(testutil.TestJWTSecret),
		FallbackOrigin: "http://localhost:3000",
		Settings:       adminsettings.NewSettingsHandler(services.NewSettingsService(s.repo, s.store, nil, nil, "test")),
		Users:          adminuser.NewUserHandler(lockout, reputation),
		Public:         public.NewHandler(reputation, services.NewPriceTrustService(s.store, clock)),
		Auth:           auth.NewHandler(lockout),
	})
	return s
}

func (s *server) do(method, path, token, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)
	return w
}

func TestRoutes_Health(t *testing.T) {
	s := newServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", "").Code)
}

func TestRoutes_AdminRequiresAdminToken(t *testing.T) {
	s := newServer(t)
	admin := testutil.SignToken(t, uuid.New().String(), middleware.RoleAdmin)
	user := testutil.SignToken(t, uuid.New().String(), "user")

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/admin/settings/general", "", "").Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/admin/settings/general", user, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/settings/general", admin, "").Code)

	w := s.do(http.MethodPut, "/api/admin/settings/key/site_name", admin, `{"value":"Prices"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Prices", s.repo.Value("site_name"))
}

func TestRoutes_MaintenanceGateAppliesToPublicRoutesOnly(t *testing.T) {
	s := newServer(t)
	admin := testutil.SignToken(t, uuid.New().String(), middleware.RoleAdmin)
	service := testutil.SignToken(t, uuid.New().String(), middleware.RoleService)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/prices/rules", "", "").Code)

	s.src.Set("maintenance_mode", "true")
	s.store.Invalidate()

	assert.Equal(t, http.StatusServiceUnavailable, s.do(http.MethodGet, "/api/prices/rules", "", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/prices/rules", admin, "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/admin/settings/general", admin, "").Code)

	id := s.users.CreateUser()
	w := s.do(http.MethodPost, "/api/auth/login-decision", service, `{"user_id":"`+id.String()+`","credentials_valid":true}`)
	assert.Equal(t, http.StatusOK, w.Code, "admins must still be able to sign in during maintenance")
}

func TestRoutes_LoginDecisionRequiresServiceToken(t *testing.T) {
	s := newServer(t)
	id := s.users.CreateUser()
	body := `{"user_id":"` + id.String() + `","credentials_valid":false}`

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login-decision", "", body).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/auth/login-decision", testutil.SignToken(t, id.String(), "user"), body).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodPost, "/api/auth/login-decision", testutil.SignToken(t, uuid.New().String(), middleware.RoleService), body).Code)
	assert.Equal(t, 1, s.users.AuthState(id).FailedLoginAttempts)
}

func TestRoutes_PreflightSkipsAuth(t *testing.T) {
	s := newServer(t)
	r := httptest.NewRequest(http.MethodOptions, "/api/admin/settings/general", nil)
	r.Header.Set("Origin", "https://pricefeed.app")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://pricefeed.app", w.Header().Get("Access-Control-Allow-Origin"))
}
