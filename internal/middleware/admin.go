package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/FoxxDev-Collab/pricefeed-app/pkg/debug"
	"github.com/FoxxDev-Collab/pricefeed-app/pkg/jwt"
)

const (
	// RoleAdmin is the role claim carried by administrator tokens.
	RoleAdmin = "admin"
	// RoleService is carried by tokens of trusted backend callers such as
	// the credential service that asks for login decisions.
	RoleService = "service"
)

// TokenFromRequest returns the session token from the "token" cookie or,
// failing that, a Bearer Authorization header.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// RequireRole only lets through requests whose verified token carries one of
// roles. Verified claims are stored in the request context.
func RequireRole(validator *jwt.Validator, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			debug.Debug("Checking %v authorization for %s %s", roles, r.Method, r.URL.Path)

			token := TokenFromRequest(r)
			if token == "" {
				debug.Warning("No auth token found for %s %s", r.Method, r.URL.Path)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := validator.Parse(token)
			if err != nil {
				debug.Warning("Invalid token: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(roles, claims.Role) {
				debug.Warning("User %s with role %s denied access to %s", claims.UserID, claims.Role, r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.WithClaims(r.Context(), claims)))
		})
	}
}

// AdminOnly middleware ensures that only admin users can access the route
func AdminOnly(validator *jwt.Validator) func(http.Handler) http.Handler {
	return RequireRole(validator, RoleAdmin)
}
