package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnemosyne/pkg/auth"
)

func TestGenerateAndValidateToken_RoundTrips(t *testing.T) {
	// Arrange
	cfg := auth.JWTConfig{SecretKey: "super-secret", Issuer: "mnemosyne"}
	gen, err := auth.NewJWTGenerator(cfg, time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewJWTValidator(cfg)
	require.NoError(t, err)

	token, err := gen.GenerateToken("owner-1", "owner@example.com")
	require.NoError(t, err)

	// Act
	claims, err := validator.ValidateToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.OwnerID)
	assert.Equal(t, "owner@example.com", claims.Email)
}

func TestValidateToken_AcceptsBearerPrefix(t *testing.T) {
	// Arrange
	cfg := auth.JWTConfig{SecretKey: "super-secret"}
	gen, err := auth.NewJWTGenerator(cfg, time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewJWTValidator(cfg)
	require.NoError(t, err)
	token, err := gen.GenerateToken("owner-1", "")
	require.NoError(t, err)

	// Act
	claims, err := validator.ValidateToken("Bearer " + token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.OwnerID)
}

func TestValidateToken_RejectsEmptyToken(t *testing.T) {
	// Arrange
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "x"})
	require.NoError(t, err)

	// Act
	_, err = validator.ValidateToken("")

	// Assert
	assert.ErrorIs(t, err, auth.ErrMissingToken)
}

func TestValidateToken_RejectsTokenSignedWithDifferentSecret(t *testing.T) {
	// Arrange
	gen, err := auth.NewJWTGenerator(auth.JWTConfig{SecretKey: "secret-a"}, time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewJWTValidator(auth.JWTConfig{SecretKey: "secret-b"})
	require.NoError(t, err)
	token, err := gen.GenerateToken("owner-1", "")
	require.NoError(t, err)

	// Act
	_, err = validator.ValidateToken(token)

	// Assert
	assert.Error(t, err)
}

func TestValidateToken_RejectsExpiredToken(t *testing.T) {
	// Arrange
	cfg := auth.JWTConfig{SecretKey: "super-secret"}
	gen, err := auth.NewJWTGenerator(cfg, -time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewJWTValidator(cfg)
	require.NoError(t, err)
	token, err := gen.GenerateToken("owner-1", "")
	require.NoError(t, err)

	// Act
	_, err = validator.ValidateToken(token)

	// Assert
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateToken_RejectsWrongAudience(t *testing.T) {
	// Arrange
	genCfg := auth.JWTConfig{SecretKey: "super-secret", Audience: []string{"api-a"}}
	valCfg := auth.JWTConfig{SecretKey: "super-secret", Audience: []string{"api-b"}}
	gen, err := auth.NewJWTGenerator(genCfg, time.Hour)
	require.NoError(t, err)
	validator, err := auth.NewJWTValidator(valCfg)
	require.NoError(t, err)
	token, err := gen.GenerateToken("owner-1", "")
	require.NoError(t, err)

	// Act
	_, err = validator.ValidateToken(token)

	// Assert
	assert.ErrorIs(t, err, auth.ErrInvalidClaims)
}

func TestNewJWTValidator_RejectsEmptySecret(t *testing.T) {
	_, err := auth.NewJWTValidator(auth.JWTConfig{})
	assert.Error(t, err)
}

func TestOwnerContext_SetAndGetRoundTrip(t *testing.T) {
	// Arrange
	ctx := auth.SetOwnerInContext(context.Background(), &auth.OwnerContext{OwnerID: "o", Email: "e"})

	// Act
	owner, err := auth.GetOwnerFromContext(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "o", owner.OwnerID)
}

func TestGetOwnerFromContext_ErrorsWhenAbsent(t *testing.T) {
	_, err := auth.GetOwnerFromContext(context.Background())
	assert.Error(t, err)
}
