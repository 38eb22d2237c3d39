package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
)

const (
	ContextKeyUserID = "userID"
	ContextKeyEmail  = "email"
)

// TokenValidator is satisfied by *jwt.Manager.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header
// and stores the user id and email in the context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			response.Error(c, apperr.Unauthorized(apperr.CodeTokenMissing, "Access token is missing"), "")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				response.Error(c, apperr.Unauthorized(apperr.CodeTokenExpired, "Token has expired"), "")
				return
			}
			response.Error(c, apperr.Unauthorized(apperr.CodeInvalidToken, "Invalid token"), "")
			return
		}

		c.Set(ContextKeyUserID, claims.ID)
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

// CurrentUserID returns the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
