package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/skit-dev/sodeca-api/internal/models"
	appErrors "github.com/skit-dev/sodeca-api/pkg/errors"
	"github.com/skit-dev/sodeca-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

type sessionFinder interface {
	Find(ctx context.Context, id string) (*models.Session, error)
}

// Session protects routes by requiring a valid session cookie. The cookie
// value is an opaque id; everything else lives server-side.
func Session(sessions sessionFinder, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cookieName)
		if err != nil || id == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "please log in"))
			c.Abort()
			return
		}

		session, err := sessions.Find(c.Request.Context(), id)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "session expired, please log in again"))
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// RequireStaff blocks non-staff accounts. Must run after Session.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextSessionKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		session, ok := value.(*models.Session)
		if !ok || session.Role != models.RoleStaff {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "staff access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
