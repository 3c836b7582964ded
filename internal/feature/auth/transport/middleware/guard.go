package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"role_portal/internal/feature/auth/domain/entity"
	"role_portal/internal/feature/auth/usecase"
	"role_portal/internal/platform/flash"
	"role_portal/internal/platform/web"
)

// Notices shown when a guard turns a request away.
const (
	MsgLoginRequired    = "Please log in to access this page."
	MsgPermissionDenied = "You do not have permission to view this page."
)

// SessionResolver resolves a session token to its user.
// It returns usecase.ErrNoSession when the token cannot be used.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*entity.User, error)
}

// LoadSession resolves the session cookie and stores the user in the gin
// context. A cookie that no longer resolves is cleared; a storage failure
// ends the request with a 500.
func LoadSession(sessions SessionResolver, cookie SessionCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Read(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := sessions.CurrentUser(c.Request.Context(), token)
		switch {
		case err == nil:
			web.SetCurrentUser(c, user)
		case errors.Is(err, usecase.ErrNoSession):
			zerolog.Ctx(c.Request.Context()).Debug().Msg("dropping stale session cookie")
			cookie.Clear(c)
		default:
			web.RenderError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAuth sends anonymous visitors to the login page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := web.CurrentUser(c); !ok {
			flash.Add(c, flash.Info, MsgLoginRequired)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole admits only users holding exactly role. Everyone else,
// anonymous or not, is sent home with a notice.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := web.CurrentUser(c)
		if !ok || user.Role != role {
			flash.Add(c, flash.Danger, MsgPermissionDenied)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in users to their dashboard.
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := web.CurrentUser(c); ok {
			c.Redirect(http.StatusFound, web.DashboardPath(user.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}
