package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"messaging-service/internal/identity"
)

// AuthMiddleware validates the Authorization header and resolves the
// caller's profile id once per request.
func AuthMiddleware(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		profileID, err := resolver.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, identity.ErrUnauthenticated):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			case errors.Is(err, identity.ErrProfileNotFound):
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no profile found for the authenticated user"})
			default:
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "identity resolution failed"})
			}
			return
		}

		c.Set("profileID", profileID)
		c.Next()
	}
}
