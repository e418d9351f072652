package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "session_id"

const (
	contextKeyUserID    = "user_id"
	contextKeySessionID = "session_id"
)

// Sessions resolves a session ID to its user. Implemented by *Store.
type Sessions interface {
	GetUserID(ctx context.Context, id string) (int64, bool)
}

// UserIDFromContext returns the current user ID set by RequireSession. 0 if not set.
func UserIDFromContext(c *gin.Context) int64 {
	v, ok := c.Get(contextKeyUserID)
	if !ok {
		return 0
	}
	id, ok := v.(int64)
	if !ok {
		return 0
	}
	return id
}

// SessionIDFromContext returns the current session ID set by RequireSession.
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeySessionID)
}

// SetIdentity stores the signed-in user and session on c.
func SetIdentity(c *gin.Context, userID int64, sessionID string) {
	c.Set(contextKeyUserID, userID)
	c.Set(contextKeySessionID, sessionID)
}

// RequireSession returns a middleware that checks for a valid session cookie
// and sets the current user and session in context. If missing or invalid, responds with 401.
func RequireSession(sessions Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(SessionCookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		userID, ok := sessions.GetUserID(c.Request.Context(), sessionID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		SetIdentity(c, userID, sessionID)
		c.Next()
	}
}
