package testutil

import (
	"testing"
	"time"

	pfjwt "github.com/FoxxDev-Collab/pricefeed-app/pkg/jwt"
	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/require"
)

// TestJWTSecret signs tokens produced by SignToken.
const TestJWTSecret = "test-secret-key"

// SignToken issues an HS256 session token valid for one hour.
func SignToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := pfjwt.Claims{
		UserID:         userID,
		Role:           role,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	require.NoError(t, err)
	return token
}
