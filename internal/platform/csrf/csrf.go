// Package csrf guards form posts with a double-submit token: a random nonce
// lives in the csrf cookie and every rendered form carries a signed token
// bound to that nonce.
package csrf

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"role_portal/internal/platform/metrics"
	"role_portal/internal/platform/web"
)

const (
	// FieldName is the hidden form field carrying the token.
	FieldName = "csrf_token"
	// HeaderName is accepted in place of the form field.
	HeaderName = "X-CSRF-Token"
	// CookieName holds the nonce the token is bound to.
	CookieName = "csrf"

	tokenTTL = 12 * time.Hour
)

// MsgInvalid is shown when a post arrives without a matching token.
const MsgInvalid = "The form has expired or was not submitted from this site. Please reload the page and try again."

// Signer issues and verifies form tokens. *token.Signer satisfies it.
type Signer interface {
	SignCSRF(nonce string, expiresAt time.Time) (string, error)
	ParseCSRF(token string) (string, error)
}

// Protect rejects unsafe requests whose token does not match the csrf
// cookie with 403, and makes a fresh token available to templates through
// web.CSRFToken.
func Protect(signer Signer, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce, _ := c.Cookie(CookieName)

		if !safeMethod(c.Request.Method) && !verify(signer, nonce, submitted(c)) {
			zerolog.Ctx(c.Request.Context()).Warn().
				Bool("has_cookie", nonce != "").
				Msg("csrf token rejected")
			metrics.RecordAuth(metrics.FlowCSRF, metrics.OutcomeRejected)
			web.Render(c, http.StatusForbidden, "error.html", gin.H{
				"Title":   "Forbidden",
				"Message": MsgInvalid,
			})
			c.Abort()
			return
		}

		if nonce == "" {
			nonce = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     CookieName,
				Value:    nonce,
				Path:     "/",
				HttpOnly: true,
				Secure:   secure || c.Request.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		tok, err := signer.SignCSRF(nonce, time.Now().Add(tokenTTL))
		if err != nil {
			web.RenderError(c, err)
			return
		}
		web.SetCSRFToken(c, tok)
		c.Next()
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func submitted(c *gin.Context) string {
	if tok := c.PostForm(FieldName); tok != "" {
		return tok
	}
	return c.GetHeader(HeaderName)
}

func verify(signer Signer, nonce, tok string) bool {
	if nonce == "" || tok == "" {
		return false
	}
	bound, err := signer.ParseCSRF(tok)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(bound), []byte(nonce)) == 1
}
