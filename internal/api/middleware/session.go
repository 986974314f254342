package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/martijn/miniblog/internal/core/domain"
	"github.com/martijn/miniblog/internal/core/service"
)

const (
	// SessionCookie is the name of the cookie carrying the session token.
	SessionCookie = "session_token"

	callerContextKey  = "caller"
	sessionContextKey = "session_id"
)

// SessionMiddleware resolves the session cookie to a user and stores the
// identity in the request context. Requests without a valid session proceed
// as anonymous; individual methods decide whether that is acceptable.
func SessionMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err == nil && token != "" {
			if user, sessionID, err := authService.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(callerContextKey, user)
				c.Set(sessionContextKey, sessionID)
			}
		}
		c.Next()
	}
}

// Caller returns the authenticated user for this request, or nil when the
// caller is anonymous.
func Caller(c *gin.Context) *domain.User {
	v, exists := c.Get(callerContextKey)
	if !exists {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// SessionID returns the caller's session ID, or "" when anonymous.
func SessionID(c *gin.Context) string {
	v, exists := c.Get(sessionContextKey)
	if !exists {
		return ""
	}
	id, _ := v.(string)
	return id
}
