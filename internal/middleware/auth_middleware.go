package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/challenge-api/internal/pkg/errors"
)

// TokenVerifier проверяет bearer-токен и возвращает идентификатор пользователя.
// Реализуется auth.ClerkVerifier.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth проверяет bearer-токен запроса и кладет user_id в контекст.
// Ошибки самого токена дают 401; сбой верификатора — 500.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			c.Abort()
			return
		}

		// Проверяем формат заголовка Bearer {token}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			c.Abort()
			return
		}

		userID, err := m.verifier.Verify(parts[1])
		if err != nil {
			status := apperrors.HTTPStatus(err)
			if status == http.StatusUnauthorized {
				c.JSON(status, gin.H{"error": "Invalid authentication token", "error_type": "token_invalid"})
			} else {
				c.JSON(status, gin.H{"error": "Authentication check failed", "error_type": "auth_internal"})
			}
			c.Abort()
			return
		}

		// Устанавливаем ID пользователя в контекст
		c.Set("user_id", userID)
		c.Next()
	}
}
