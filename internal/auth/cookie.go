package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the session cookie the client keeps between requests.
const CookieName = "auth-token"

// CookieManager reads and writes the session token cookie. The cookie is
// HTTP-only with SameSite=Lax on path "/", Secure when serving over TLS in
// prod, max-age equal to the token lifetime.
type CookieManager struct {
	secure bool
	ttl    time.Duration
}

func NewCookieManager(secure bool, ttl time.Duration) *CookieManager {
	return &CookieManager{
		secure: secure,
		ttl:    ttl,
	}
}

func (c *CookieManager) Attach(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		CookieName,
		token,
		int(c.ttl.Seconds()),
		"/",
		"",
		c.secure,
		true, // HttpOnly.
	)
}

func (c *CookieManager) Read(ctx *gin.Context) (string, bool) {
	raw, err := ctx.Cookie(CookieName)

	if err != nil || raw == "" {
		return "", false
	}

	return raw, true
}

func (c *CookieManager) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		CookieName,
		"",
		-1,
		"/",
		"",
		c.secure,
		true,
	)
}
