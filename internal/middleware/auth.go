package middleware

import (
	"strings"

	"jobboard_backend/internal/auth"
	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"
	"jobboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// IdentityKey - ключ auth.Identity в gin.Context
const IdentityKey = "identity"

// TokenVerifier проверяет bearer токен
type TokenVerifier interface {
	ParseToken(token string) (*auth.Identity, error)
}

// AuthMiddleware - middleware проверки JWT. Identity строится один раз на запрос.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		identity, err := tokens.ParseToken(tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Rejected bearer token", "path", c.Request.URL.Path, "error", err.Error())
			apperrors.HandleError(c, err)
			return
		}

		c.Set(IdentityKey, identity)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), identity.UserID.Hex()))
		c.Next()
	}
}

// RequireRoles - middleware для проверки нескольких возможных ролей
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		identity := GetIdentity(c)
		if identity == nil {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}

		if !roleSet[identity.Role] {
			apperrors.HandleError(c, apperrors.ErrForbiddenRole)
			return
		}

		c.Next()
	}
}

// RequirePermission - проверка через общую таблицу прав auth.Permissions
func RequirePermission(permission auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(GetIdentity(c), permission); err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.Next()
	}
}

// GetIdentity извлекает Identity из контекста. nil для анонимного запроса.
func GetIdentity(c *gin.Context) *auth.Identity {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}

	identity, ok := val.(*auth.Identity)
	if !ok {
		return nil
	}

	return identity
}
