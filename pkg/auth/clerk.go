package auth

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// SessionClaims содержит клеймы сессионного токена Clerk.
// azp (authorized party) — origin фронтенда, выпустившего токен.
type SessionClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// ClerkVerifier проверяет сессионные токены Clerk без обращения к API
// провайдера: подпись валидируется локально публичным ключом инстанса
// (networkless-режим), claim azp сверяется со списком разрешенных origin.
type ClerkVerifier struct {
	publicKey         *rsa.PublicKey
	authorizedParties map[string]struct{}
}

// NewClerkVerifier создает верификатор из PEM-ключа инстанса Clerk
// и списка разрешенных origin-ов
func NewClerkVerifier(pemKey string, authorizedParties []string) (*ClerkVerifier, error) {
	if pemKey == "" {
		return nil, fmt.Errorf("%w: Clerk JWT public key is required", apperrors.ErrConfiguration)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse Clerk JWT public key: %v", apperrors.ErrConfiguration, err)
	}

	parties := make(map[string]struct{}, len(authorizedParties))
	for _, p := range authorizedParties {
		parties[p] = struct{}{}
	}

	return &ClerkVerifier{
		publicKey:         publicKey,
		authorizedParties: parties,
	}, nil
}

// Verify проверяет токен и возвращает идентификатор пользователя (claim sub).
// Ошибки самого токена (подпись, срок, формат) возвращаются как
// ErrUnauthenticated; проблемы конфигурации верификатора — как ErrAuthInternal.
func (v *ClerkVerifier) Verify(tokenString string) (string, error) {
	if v.publicKey == nil {
		return "", fmt.Errorf("%w: verifier has no public key", apperrors.ErrAuthInternal)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnauthenticated, err)
	}
	if !token.Valid {
		return "", fmt.Errorf("%w: invalid token", apperrors.ErrUnauthenticated)
	}

	// Токен, выпущенный для неизвестного origin, не принимаем
	if len(v.authorizedParties) > 0 && claims.AuthorizedParty != "" {
		if _, ok := v.authorizedParties[claims.AuthorizedParty]; !ok {
			return "", fmt.Errorf("%w: authorized party %q is not allowed", apperrors.ErrUnauthenticated, claims.AuthorizedParty)
		}
	}

	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject claim", apperrors.ErrUnauthenticated)
	}

	return claims.Subject, nil
}
