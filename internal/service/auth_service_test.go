package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moodscale/internal/config"
	"moodscale/internal/model"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Enabled:   true,
		Username:  "owner",
		Password:  "s3cret",
		JWTSecret: "test-secret",
	}
}

func TestAuthServiceLogin(t *testing.T) {
	svc := NewAuthService(testAuthConfig())
	assert.True(t, svc.Enabled())

	resp, err := svc.Login("owner", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.OwnerID, "owner_")

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.OwnerID, claims.OwnerID)
	assert.Equal(t, resp.OwnerID, claims.Subject)

	// the owner ID identifies the account across logins
	again, err := svc.Login("owner", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, resp.OwnerID, again.OwnerID)
	assert.NotEqual(t, OwnerIDFor("someone-else"), resp.OwnerID)
}

func TestAuthServiceLoginBadCredentials(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	_, err := svc.Login("owner", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRejectsTokens(t *testing.T) {
	svc := NewAuthService(testAuthConfig())

	sign := func(secret string, method jwt.SigningMethod, expires time.Time) string {
		claims := &model.OwnerClaims{
			OwnerID: "owner_x",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expires),
			},
		}
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	tests := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": sign("other", jwt.SigningMethodHS256, time.Now().Add(time.Hour)),
		"expired":      sign("test-secret", jwt.SigningMethodHS256, time.Now().Add(-time.Hour)),
		"other alg":    sign("test-secret", jwt.SigningMethodHS512, time.Now().Add(time.Hour)),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
