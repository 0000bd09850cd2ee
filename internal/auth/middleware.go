package auth

import (
	"net/http"
	"strings"

	"pos-service/internal/models"

	"github.com/gin-gonic/gin"
)

const claimsContextKey = "auth_claims"

// Authenticate verifies the Bearer token and stores the claims on the
// request context
func Authenticate(manager *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims, err := manager.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// Require rejects the request unless the authenticated user holds the
// capability
func Require(cap Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil || !Allowed(claims.Role, claims.SubRole, cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by Authenticate, nil when absent
func ClaimsFrom(c *gin.Context) *Claims {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// TenantFrom returns the authenticated tenant id. The second return value is
// false for superadmins, who have no tenant of their own.
func TenantFrom(c *gin.Context) (int64, bool) {
	claims := ClaimsFrom(c)
	if claims == nil || claims.TenantID == nil {
		return 0, false
	}
	return *claims.TenantID, true
}

// LocationAllowed reports whether the user may operate at a location.
// Admins reach every branch of their tenant; employees only their own.
func LocationAllowed(c *gin.Context, locationID int64) bool {
	claims := ClaimsFrom(c)
	if claims == nil {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	return claims.LocationID != nil && *claims.LocationID == locationID
}
