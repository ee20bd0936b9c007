package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, subject string, roles []string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": "owner@example.com",
		"roles": roles,
		"exp":   time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerify(t *testing.T) {
	userID := uuid.New()
	verifier := NewVerifier(testSecret)

	tokenString := signToken(t, testSecret, userID.String(), []string{RoleUser, RoleVetOwner}, time.Hour)

	claims, err := verifier.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.True(t, claims.HasRole(RoleVetOwner))
	assert.True(t, claims.HasRole(RoleUser))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := NewVerifier(testSecret)
	tokenString := signToken(t, "other-secret", uuid.NewString(), []string{RoleUser}, time.Hour)

	_, err := verifier.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := NewVerifier(testSecret)
	tokenString := signToken(t, testSecret, uuid.NewString(), []string{RoleUser}, -time.Minute)

	_, err := verifier.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsNonHMACAlgorithm(t *testing.T) {
	verifier := NewVerifier(testSecret)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(unsigned)
	assert.Error(t, err)
}

func TestVerifyRejectsNonUUIDSubject(t *testing.T) {
	verifier := NewVerifier(testSecret)
	tokenString := signToken(t, testSecret, "service-account-1", []string{RoleAdmin}, time.Hour)

	_, err := verifier.Verify(tokenString)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier := NewVerifier(testSecret)

	_, err := verifier.Verify("not.a.token")
	assert.Error(t, err)
}
