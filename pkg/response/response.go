package response

import (
	"log"
	"net/http"

	"bookhaven.id/bookreview/pkg/apperror"
	"bookhaven.id/bookreview/pkg/auth"
	"github.com/gin-gonic/gin"
)

// ClaimsKey is the gin context key under which the auth middleware
// stores the verified token claims.
const ClaimsKey = "claims"

// GetClaims retrieves the authenticated identity from the context
func GetClaims(c *gin.Context) (*auth.Claims, error) {
	value, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, apperror.ErrUnauthorized
	}

	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil, apperror.ErrUnauthorized
	}

	return claims, nil
}

// Error standardized error response
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors, respond with a generic message
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
