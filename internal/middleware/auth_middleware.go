package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/swifttransit/busline-backend/pkg/jwt"
)

// AgencyContextKey is the key used to store agency information in Gin context
const AgencyContextKey = "agency"

// AgencyContext represents the authenticated agency's identity. The
// scheduling core trusts this resolved agency ID on every call.
type AgencyContext struct {
	AgencyID   uuid.UUID `json:"agency_id"`
	AgencyName string    `json:"agency_name"`
	Roles      []string  `json:"roles"`
}

// AuthMiddleware creates a middleware that validates JWT tokens and resolves
// the calling agency
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Expected: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid access token"})
			c.Abort()
			return
		}

		c.Set(AgencyContextKey, AgencyContext{
			AgencyID:   claims.AgencyID,
			AgencyName: claims.AgencyName,
			Roles:      claims.Roles,
		})

		c.Next()
	}
}

// GetAgencyContext retrieves the agency context from the Gin context
func GetAgencyContext(c *gin.Context) (AgencyContext, bool) {
	value, exists := c.Get(AgencyContextKey)
	if !exists {
		return AgencyContext{}, false
	}
	ctx, ok := value.(AgencyContext)
	return ctx, ok
}
