// Package flash implements one-time notices that survive a single redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cookieName = "flash"
	pendingKey = "flash.pending"
	secureKey  = "flash.secure"
)

// Category selects how a notice is styled.
type Category string

const (
	Success Category = "success"
	Danger  Category = "danger"
	Info    Category = "info"
)

// Message is one notice.
type Message struct {
	Category Category `json:"c"`
	Text     string   `json:"t"`
}

// Middleware marks flash cookies Secure when secure is set, for deployments
// where TLS ends at a proxy and the request itself arrives over plain HTTP.
func Middleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(secureKey, secure)
		c.Next()
	}
}

// Add queues a notice for the next rendered page, whether that is the
// current response or the target of a redirect.
func Add(c *gin.Context, category Category, text string) {
	msgs := append(pending(c), Message{Category: category, Text: text})
	c.Set(pendingKey, msgs)

	data, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	dropSetCookie(c)
	setCookie(c, base64.RawURLEncoding.EncodeToString(data), 0)
}

// Pop returns every notice waiting for this request and clears them.
func Pop(c *gin.Context) []Message {
	var msgs []Message
	if raw, err := c.Cookie(cookieName); err == nil && raw != "" {
		if data, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			_ = json.Unmarshal(data, &msgs)
		}
		setCookie(c, "", -1)
	}

	if queued := pending(c); len(queued) > 0 {
		msgs = append(msgs, queued...)
		c.Set(pendingKey, []Message(nil))
		// Shown now, so they must not also survive into the next request.
		dropSetCookie(c)
		setCookie(c, "", -1)
	}
	return msgs
}

func pending(c *gin.Context) []Message {
	if v, ok := c.Get(pendingKey); ok {
		if msgs, ok := v.([]Message); ok {
			return msgs
		}
	}
	return nil
}

func setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	secure := c.Request.TLS != nil || c.GetBool(secureKey)
	c.SetCookie(cookieName, value, maxAge, "/", "", secure, true)
}

// dropSetCookie removes flash cookies already queued on this response.
func dropSetCookie(c *gin.Context) {
	h := c.Writer.Header()
	cookies := h.Values("Set-Cookie")
	if len(cookies) == 0 {
		return
	}
	kept := make([]string, 0, len(cookies))
	for _, sc := range cookies {
		if !strings.HasPrefix(sc, cookieName+"=") {
			kept = append(kept, sc)
		}
	}
	h.Del("Set-Cookie")
	for _, sc := range kept {
		h.Add("Set-Cookie", sc)
	}
}
