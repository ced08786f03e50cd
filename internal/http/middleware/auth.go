package middleware

import (
	"net/http"
	"strings"

	"backoffice/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	actorKey    = "actor"
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// Authenticator resolves a bearer token to the acting user.
type Authenticator interface {
	Authenticate(token string) (domain.Actor, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// actor, user id and role on the context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		actor, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		c.Set(actorKey, actor)
		c.Set(userIDKey, actor.UserID)
		c.Set(userRoleKey, string(actor.Role))
		c.Next()
	}
}

// GetActor returns the authenticated actor, or the zero value on public routes.
func GetActor(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Actor{}
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": GetRequestID(c),
	})
}
