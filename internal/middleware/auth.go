package middleware

import (
	"strings"

	"archived_backend/internal/logger"
	"archived_backend/internal/services"
	"archived_backend/pkg/apperrors"
	"archived_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	// ContextUserIDKey - ID аутентифицированного пользователя (uint)
	ContextUserIDKey = "userID"
	// ContextUsernameKey - имя пользователя на момент запроса
	ContextUsernameKey = "username"
)

// AuthMiddleware - проверка Bearer access-токена и существования пользователя.
// Должен стоять после DBMiddleware.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apperrors.HandleError(c, apperrors.ErrInvalidAccessToken)
			return
		}

		db, ok := c.MustGet(contextkeys.DBContextKey.String()).(*gorm.DB)
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(nil))
			return
		}

		user, err := authService.Authenticate(db, token)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста (0, если его нет)
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}

	id, ok := userID.(uint)
	if !ok {
		return 0
	}

	return id
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
