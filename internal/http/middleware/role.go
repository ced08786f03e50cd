package middleware

import (
	"net/http"
	"strings"

	"backoffice/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets through users holding one of allowedRoles. It runs
// after RequireAuth, which puts the role on the context.
//
//	r.DELETE("/customers/:id", RequireRoles(models.RoleAdmin), handler)
func RequireRoles(allowedRoles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[strings.ToLower(string(r))] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(userRoleKey)
		if role == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "no role on request")
			return
		}
		if _, ok := allowed[strings.ToLower(role)]; !ok {
			abortJSON(c, http.StatusForbidden, "forbidden", "your role cannot perform this action")
			return
		}
		c.Next()
	}
}
