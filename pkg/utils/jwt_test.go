package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signTestToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) Claims {
	return Claims{
		Role: "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestTokenVerifier_AcceptsPlatformToken(t *testing.T) {
	v, err := NewTokenVerifier(testSecret, "authenticated", "")
	require.NoError(t, err)

	userID := uuid.New()
	token := signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(userID.String()))

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Equal(t, "authenticated", claims.Role)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v, err := NewTokenVerifier(testSecret, "authenticated", "")
	require.NoError(t, err)

	expired := validClaims(uuid.NewString())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAud := validClaims(uuid.NewString())
	wrongAud.Audience = jwt.ClaimStrings{"anon"}

	noExp := validClaims(uuid.NewString())
	noExp.ExpiresAt = nil

	cases := map[string]string{
		"wrong secret":   signTestToken(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-000"), validClaims(uuid.NewString())),
		"expired":        signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
		"wrong audience": signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), wrongAud),
		"missing exp":    signTestToken(t, jwt.SigningMethodHS256, []byte(testSecret), noExp),
		"HS512":          signTestToken(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(uuid.NewString())),
		"garbage":        "not-a-token",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := v.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestClaims_UserIDRequiresUUID(t *testing.T) {
	c := validClaims("service-role")
	_, err := c.UserID()
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestNewTokenVerifier_EmptySecret(t *testing.T) {
	_, err := NewTokenVerifier("", "", "")
	assert.Error(t, err)
}
