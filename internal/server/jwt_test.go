package server

import (
	"strings"
	"testing"
	"time"

	"github.com/devapply/devapply/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testSecret,
		ExpirationHours: expirationHours,
		Issuer:          config.DefaultTokenIssuer,
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, config.DefaultTokenIssuer, claims.Issuer)
}

func TestJWTService_GenerateToken_Expiration(t *testing.T) {
	service := setupTestJWTService(t, 2)
	fixed := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(2*time.Hour), claims.ExpiresAt.Time.UTC())
	assert.Equal(t, fixed, claims.IssuedAt.Time.UTC())
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := setupTestJWTService(t, 24).GenerateToken(uuid.New())
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{
		Secret:          "another-secret-key-that-is-also-32-bytes-long",
		ExpirationHours: 24,
		Issuer:          config.DefaultTokenIssuer,
	})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token signature")
}

func TestJWTService_ValidateToken_WrongIssuer(t *testing.T) {
	foreign := NewJWTService(&config.JWTConfig{Secret: testSecret, ExpirationHours: 24, Issuer: "someone-else"})
	token, err := foreign.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = setupTestJWTService(t, 24).ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_Malformed(t *testing.T) {
	service := setupTestJWTService(t, 24)

	_, err := service.ValidateToken("")
	assert.EqualError(t, err, "token string is empty")

	_, err = service.ValidateToken("not.a.jwt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed token")
}

func TestJWTService_ValidateToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{UserID: uuid.New(), RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    config.DefaultTokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = setupTestJWTService(t, 24).ValidateToken(token)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = setupTestJWTService(t, 24).ValidateToken(unsigned)
	assert.Error(t, err)
}

func TestJWTService_ValidateToken_NilUser(t *testing.T) {
	service := setupTestJWTService(t, 24)
	token, err := service.GenerateToken(uuid.Nil)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.EqualError(t, err, "token is not valid")
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()
	token, err := service.GenerateToken(userID)
	require.NoError(t, err)

	getter, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, getter.GetUserID())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
