package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// testKeys генерирует RSA-пару и возвращает приватный ключ и PEM публичного
func testKeys(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	derBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: derBytes,
	})
	return privateKey, string(pemBytes)
}

// signToken подписывает токен с заданными клеймами
func signToken(t *testing.T, key *rsa.PrivateKey, claims *SessionClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(subject, azp string) *SessionClaims {
	return &SessionClaims{
		AuthorizedParty: azp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestClerkVerifier_Verify_ValidToken(t *testing.T) {
	privateKey, pemKey := testKeys(t)
	verifier, err := NewClerkVerifier(pemKey, []string{"http://localhost:5173"})
	require.NoError(t, err)

	tokenString := signToken(t, privateKey, validClaims("user_2abc", "http://localhost:5173"))

	userID, err := verifier.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", userID)
}

func TestClerkVerifier_Verify_ExpiredToken(t *testing.T) {
	privateKey, pemKey := testKeys(t)
	verifier, err := NewClerkVerifier(pemKey, nil)
	require.NoError(t, err)

	claims := validClaims("user_2abc", "")
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	tokenString := signToken(t, privateKey, claims)

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestClerkVerifier_Verify_WrongKey(t *testing.T) {
	// Токен подписан другим ключом
	otherKey, _ := testKeys(t)
	_, pemKey := testKeys(t)
	verifier, err := NewClerkVerifier(pemKey, nil)
	require.NoError(t, err)

	tokenString := signToken(t, otherKey, validClaims("user_2abc", ""))

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestClerkVerifier_Verify_UnknownAuthorizedParty(t *testing.T) {
	privateKey, pemKey := testKeys(t)
	verifier, err := NewClerkVerifier(pemKey, []string{"http://localhost:5173", "http://localhost:5174"})
	require.NoError(t, err)

	tokenString := signToken(t, privateKey, validClaims("user_2abc", "https://evil.example.com"))

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestClerkVerifier_Verify_MissingSubject(t *testing.T) {
	privateKey, pemKey := testKeys(t)
	verifier, err := NewClerkVerifier(pemKey, nil)
	require.NoError(t, err)

	tokenString := signToken(t, privateKey, validClaims("", ""))

	_, err = verifier.Verify(tokenString)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestClerkVerifier_Verify_GarbageToken(t *testing.T) {
	_, pemKey := testKeys(t)
	verifier, err := NewClerkVerifier(pemKey, nil)
	require.NoError(t, err)

	_, err = verifier.Verify("not.a.token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestNewClerkVerifier_BadConfig(t *testing.T) {
	_, err := NewClerkVerifier("", nil)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)

	_, err = NewClerkVerifier("not a pem key", nil)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}
