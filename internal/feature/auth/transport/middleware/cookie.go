// Package middleware provides the session cookie and the route guards of the
// auth feature.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultCookieName is the name of the cookie carrying the signed session token.
const DefaultCookieName = "session"

// SessionCookie reads and writes the session token cookie.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (sc SessionCookie) name() string {
	if sc.Name == "" {
		return DefaultCookieName
	}
	return sc.Name
}

// Read returns the token sent by the client, or "" if there is none.
func (sc SessionCookie) Read(c *gin.Context) string {
	cookie, err := c.Request.Cookie(sc.name())
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Write stores token until expiresAt. The cookie is not readable from scripts.
func (sc SessionCookie) Write(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		sc.Clear(c)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.name(),
		Value:    token,
		Path:     "/",
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear tells the client to drop the cookie.
func (sc SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sc.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
