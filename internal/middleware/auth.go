package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/milad-sol/task-manager/internal/apperrors"
	"github.com/milad-sol/task-manager/internal/authz"
	"github.com/milad-sol/task-manager/internal/constants"
	"github.com/milad-sol/task-manager/internal/identity"
	"github.com/milad-sol/task-manager/internal/services"
)

// RequireActor authenticates the request against the external identity
// provider and stores the resolved actor in the context. The local user
// mirror row is ensured on the way through so that memberships and
// assignments can reference the id.
func RequireActor(authenticator identity.Authenticator, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := authenticator.Authenticate(c.Request)
		if err != nil {
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if err := users.EnsureMirror(principal); err != nil {
			slog.Error("failed to ensure user mirror", "user_id", principal.Actor.ID, "error", err)
			apperrors.Respond(c, err)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyActor, principal.Actor)
		c.Next()
	}
}

// GetActor retrieves the current actor from context
func GetActor(c *gin.Context) (authz.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return authz.Actor{}, false
	}

	actor, ok := value.(authz.Actor)
	return actor, ok
}
