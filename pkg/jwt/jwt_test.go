package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidator_Parse(t *testing.T) {
	userID := uuid.New().String()
	validClaims := Claims{
		UserID: userID,
		Role:   "admin",
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}

	tests := []struct {
		name      string
		validator *Validator
		token     string
		wantErr   bool
	}{
		{
			name:      "valid admin token",
			validator: NewValidator("test-secret-key"),
			token:     signToken(t, "test-secret-key", jwt.SigningMethodHS256, validClaims),
		},
		{
			name:      "wrong secret",
			validator: NewValidator("another-secret"),
			token:     signToken(t, "test-secret-key", jwt.SigningMethodHS256, validClaims),
			wantErr:   true,
		},
		{
			name:      "expired token",
			validator: NewValidator("test-secret-key"),
			token: signToken(t, "test-secret-key", jwt.SigningMethodHS256, Claims{
				UserID:         userID,
				Role:           "admin",
				StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Minute).Unix()},
			}),
			wantErr: true,
		},
		{
			name:      "missing user id",
			validator: NewValidator("test-secret-key"),
			token:     signToken(t, "test-secret-key", jwt.SigningMethodHS256, Claims{Role: "admin"}),
			wantErr:   true,
		},
		{
			name:      "no secret configured",
			validator: NewValidator(""),
			token:     signToken(t, "test-secret-key", jwt.SigningMethodHS256, validClaims),
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.validator.Parse(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, "admin", claims.Role)
		})
	}
}

func TestValidator_GetUserRole_MissingRole(t *testing.T) {
	v := NewValidator("test-secret-key")
	token := signToken(t, "test-secret-key", jwt.SigningMethodHS256, Claims{UserID: uuid.New().String()})

	_, err := v.GetUserRole(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFrom(context.Background())
	assert.False(t, ok)

	claims := &Claims{UserID: "u1", Role: "admin"}
	got, ok := ClaimsFrom(WithClaims(context.Background(), claims))
	require.True(t, ok)
	assert.Same(t, claims, got)
}
