package auth

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ENV", "dev")

	token, err := SignJWT(Claims{
		Email:            "ada@example.com",
		Name:             "Ada",
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: "google:123"},
	})
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "google:123", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first")
	token, err := SignJWT(Claims{RegisteredClaims: jwtlib.RegisteredClaims{Subject: "u1"}})
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second")
	_, err = VerifyJWT(token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
}

func TestVerifyExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	past := time.Now().Add(-48 * time.Hour)
	token, err := SignJWT(Claims{RegisteredClaims: jwtlib.RegisteredClaims{
		Subject:   "u1",
		IssuedAt:  jwtlib.NewNumericDate(past),
		ExpiresAt: jwtlib.NewNumericDate(past.Add(time.Hour)),
	}})
	require.NoError(t, err)

	_, err = VerifyJWT(token)
	assert.True(t, errors.Is(err, ErrTokenExpired), "got %v", err)
}

func TestSignRequiresSubject(t *testing.T) {
	_, err := SignJWT(Claims{Email: "x@example.com"})
	assert.Error(t, err)
}

func TestProductionRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := SignJWT(Claims{RegisteredClaims: jwtlib.RegisteredClaims{Subject: "u1"}})
	assert.True(t, errors.Is(err, errMissingSecret), "got %v", err)
}
