package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"checkit-dashboard/pkg/logger"
)

const SessionContextKey = "session_id"

// SessionMiddleware assigns every browser an opaque session id cookie. The id
// only keys navigation state; it carries no identity.
func SessionMiddleware(cookieName string, ttl time.Duration, secure bool) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)

	return func(c *gin.Context) {
		session, err := c.Cookie(cookieName)
		if err != nil || uuid.Validate(session) != nil {
			session = uuid.NewString()
		}

		// Refresh on every request so active sessions do not expire.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, session, maxAge, "/", "", secure, true)

		c.Set(SessionContextKey, session)
		ctx := logger.ContextWithFields(c.Request.Context(), map[string]interface{}{"session": shortSession(session)})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SessionID returns the session assigned by SessionMiddleware, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(SessionContextKey)
}

func shortSession(session string) string {
	if len(session) > 8 {
		return session[:8]
	}
	return session
}
