package middleware

import (
	"net/http"

	"bookhaven.id/bookreview/internal/entity"
	"bookhaven.id/bookreview/pkg/auth"
	"bookhaven.id/bookreview/pkg/response"
	"github.com/gin-gonic/gin"
)

// TokenHeader is the request header carrying the raw signed token,
// with no Bearer prefix.
const TokenHeader = "token"

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth verifies the session token and attaches its claims to the
// request context. It performs no I/O beyond token verification.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader(TokenHeader)

		// Fallback to query parameter "token" (useful for WebSockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(response.ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin gates a route on the role claim. It must run after
// RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := response.GetClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if claims.Role != entity.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
