package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finvault/ebank/internal/core/domain"
)

// AdminOnly rejects requests whose verified role is not ADMIN. Must be
// applied after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromCtx(c.Request.Context())
		if !ok || domain.UserRole(role) != domain.RoleAdmin {
			GetLoggerFromCtx(c.Request.Context()).Warn("Admin access denied", "role", role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied. Admins only."})
			return
		}
		c.Next()
	}
}
