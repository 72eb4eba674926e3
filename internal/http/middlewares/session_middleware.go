package middlewares

import (
	"github.com/T1-hotae/cursor-memo-db/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type CookieReader interface {
	Read(ctx *gin.Context) (string, bool)
}

// SessionMiddleware resolves the session cookie into identity context.
// A missing, invalid or expired token never fails the request; the
// visitor is simply anonymous. Handlers that care check the context.
type SessionMiddleware struct {
	tokens  TokenVerifier
	cookies CookieReader
}

func NewSessionMiddleware(tokens TokenVerifier, cookies CookieReader) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens, cookies: cookies}
}

func (m *SessionMiddleware) CurrentSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := m.cookies.Read(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.tokens.Verify(raw)
		if err != nil {
			// Bad signature and natural expiry look identical to the
			// client: no active session.
			c.Next()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxEmail, claims.Email)

		c.Next()
	}
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxEmail)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
