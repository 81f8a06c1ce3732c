package auth

import "github.com/gin-gonic/gin"

const sessionKey = "auth_session"

// Session is the per-request identity state. It is built by the auth
// middleware from validated token claims and passed explicitly through the
// request context; nothing in the portal keeps ambient global auth state.
type Session struct {
	UserID string
	Email  string
	Roles  []string
}

// IsAdmin reports whether the session carries the admin role. This is the
// authorization source for the admin API; it is derived from the users
// collection via token claims, never from a client-supplied flag.
func (s Session) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

func (s Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SessionFromContext retrieves the session set by the auth middleware.
func SessionFromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return Session{}, false
	}
	session, ok := v.(Session)
	return session, ok
}

func setSession(c *gin.Context, session Session) {
	c.Set(sessionKey, session)
}
