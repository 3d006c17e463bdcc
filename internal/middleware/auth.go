package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"invoicecheck/internal/domain"
	"invoicecheck/internal/service"
)

const (
	ContextKeyClientID = "client_id"
	ContextKeyClaims   = "claims"
)

// AuthMiddleware returns Gin middleware that validates bearer tokens and
// injects the calling client's id.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyClientID, claims.ClientID)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClientID extracts the authenticated client id from the Gin context.
func GetClientID(c *gin.Context) (string, error) {
	val, exists := c.Get(ContextKeyClientID)
	if !exists {
		return "", domain.ErrUnauthorized
	}
	return val.(string), nil
}
