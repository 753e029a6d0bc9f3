package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mealmajor/mealmajor/backend/internal/service"
	"github.com/mealmajor/mealmajor/backend/internal/types"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware creates a middleware that validates JWT tokens
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, service.KindUnauthorized, "missing authorization header")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, http.StatusUnauthorized, service.KindUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := validator.ValidateToken(parts[1])
		if err != nil {
			message := service.ErrInvalidToken.Message
			var svcErr *service.Error
			if errors.As(err, &svcErr) && svcErr.Kind == service.KindUnauthorized {
				message = svcErr.Message
			}
			abortWithError(c, http.StatusUnauthorized, service.KindUnauthorized, message)
			return
		}

		// Store user info in context
		SetUserID(c, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// GetUserID returns the authenticated user's id set by AuthMiddleware
func GetUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

// SetUserID marks the request as authenticated. AuthMiddleware calls it
// once the token checks out.
func SetUserID(c *gin.Context, id uint) {
	c.Set(userIDKey, id)
}
