package middlewares

import (
	"strings"

	"github.com/geocoder89/mealhub/internal/auth"
	"github.com/geocoder89/mealhub/internal/observability"
	"github.com/geocoder89/mealhub/internal/session"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifySessionToken(token string) (*auth.Claims, error)
}

type SessionLookup interface {
	Get(id string) (*session.Store, bool)
}

type SessionMiddleware struct {
	tokens   TokenVerifier
	sessions SessionLookup
}

func NewSessionMiddleware(tokens TokenVerifier, sessions SessionLookup) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, sessions: sessions}
}

// LoadSession attaches the visitor's session when a valid bearer token names one.
// Anything else (no header, bad token, closed session) continues as anonymous.
func (m *SessionMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.tokens.VerifySessionToken(raw)
		if err != nil {
			c.Next()
			return
		}

		if st, ok := m.sessions.Get(claims.SessionID); ok {
			c.Set(CtxSessionID, claims.SessionID)
			c.Set(CtxSessionStore, st)
			c.Request = c.Request.WithContext(observability.WithSessionID(c.Request.Context(), claims.SessionID))
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(h, "Bearer"))
	return raw, raw != ""
}

// Helpers so handlers don't need to know the magic keys.

func SessionIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func StoreFromContext(c *gin.Context) (*session.Store, bool) {
	v, ok := c.Get(CtxSessionStore)
	if !ok {
		return nil, false
	}
	st, ok := v.(*session.Store)
	return st, ok && st != nil
}

// SnapshotFromContext returns the visitor's session, anonymous when there is none.
func SnapshotFromContext(c *gin.Context) session.Session {
	st, ok := StoreFromContext(c)
	if !ok {
		return session.Session{}
	}
	return st.Snapshot()
}
