package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/recyclepoints-backend/internal/models"
	"github.com/ArowuTest/recyclepoints-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// ActorKey is the gin context key holding the authenticated models.Actor.
const ActorKey = "actor"

// JWTAuthMiddleware creates a gin middleware for JWT authentication. The
// token subject becomes the actor's user ID and its role claim the actor's
// role.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := utils.ValidateJWT(strings.TrimSpace(authHeader[len(bearerSchema):]), secret)
		if err != nil {
			slog.Warn("Token validation failed", "error", err, "requestId", c.GetString(RequestIDKey))
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}

		c.Set(ActorKey, models.Actor{UserID: claims.Subject, Role: claims.Role})
		c.Next()
	}
}

// ActorFrom returns the actor set by JWTAuthMiddleware.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return models.Actor{}, false
	}
	a, ok := v.(models.Actor)
	return a, ok
}
