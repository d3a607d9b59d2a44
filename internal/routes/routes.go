package routes

import (
	"net/http"

	adminsettings "github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/admin/settings"
	adminuser "github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/admin/user"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/auth"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/handlers/public"
	"github.com/FoxxDev-Collab/pricefeed-app/internal/middleware"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/httputil"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/jwt"
	"github.com/gorilla/mux"
)

/*
 * Package routes wires the policy engine API onto a gorilla/mux router.
 *
 * Route Groups:
 *   - /health                      no middleware besides CORS
 *   - /api/auth/login-decision     service or admin token
 *   - /api/admin/...               admin token
 *   - /api/prices/..., /api/users/{id}/reputation
 *                                  maintenance gate
 */

// Dependencies are the handlers and middleware inputs needed by SetupRoutes.
type Dependencies struct {
	Config         middleware.SnapshotProvider
	Validator      *jwt.Validator
	FallbackOrigin string

	Settings *adminsettings.SettingsHandler
	Users    *adminuser.UserHandler
	Public   *public.Handler
	Auth     *auth.Handler
}

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(r *mux.Router, deps Dependencies) {
	debug.Info("Initializing route configuration")

	r.Use(middleware.CORS(deps.Config, deps.FallbackOrigin))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	authRouter := api.PathPrefix("/auth").Subrouter()
	authRouter.Use(middleware.RequireRole(deps.Validator, middleware.RoleService, middleware.RoleAdmin))
	authRouter.HandleFunc("/login-decision", deps.Auth.LoginDecision).Methods(http.MethodPost, http.MethodOptions)
	debug.Debug("Configured login decision route")

	adminRouter := api.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.AdminOnly(deps.Validator))
	adminRouter.HandleFunc("/settings", deps.Settings.UpdateSettings).Methods(http.MethodPut, http.MethodOptions)
	adminRouter.HandleFunc("/settings/key/{key}", deps.Settings.UpdateSetting).Methods(http.MethodPut, http.MethodOptions)
	adminRouter.HandleFunc("/settings/{category}", deps.Settings.ListByCategory).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/users/{id}/lock", deps.Users.GetLockStatus).Methods(http.MethodGet, http.MethodOptions)
	adminRouter.HandleFunc("/users/{id}/unlock", deps.Users.UnlockUser).Methods(http.MethodPost, http.MethodOptions)
	adminRouter.HandleFunc("/users/{id}/reputation", deps.Users.AwardPoints).Methods(http.MethodPost, http.MethodOptions)
	debug.Debug("Configured admin routes")

	publicRouter := api.NewRoute().Subrouter()
	publicRouter.Use(middleware.MaintenanceGate(deps.Config, deps.Validator))
	publicRouter.HandleFunc("/prices/rules", deps.Public.GetPriceRules).Methods(http.MethodGet, http.MethodOptions)
	publicRouter.HandleFunc("/prices/evaluate", deps.Public.EvaluatePrice).Methods(http.MethodPost, http.MethodOptions)
	publicRouter.HandleFunc("/users/{id}/reputation", deps.Public.GetUserReputation).Methods(http.MethodGet, http.MethodOptions)
	debug.Debug("Configured public routes")

	debug.Info("Route configuration completed successfully")
}
