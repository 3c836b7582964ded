// Package web holds the HTML rendering helpers shared by all handlers.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"role_portal/internal/feature/auth/domain/entity"
	"role_portal/internal/platform/flash"
)

const (
	// ContextUserKey is the gin context key holding the authenticated *entity.User.
	ContextUserKey = "currentUser"

	csrfTokenKey = "csrfToken"
)

//go:embed templates/*.html
var templateFS embed.FS

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"dashboardPath": DashboardPath,
	}).ParseFS(templateFS, "templates/*.html")
}

// SetCurrentUser stores the authenticated user for the rest of the request.
func SetCurrentUser(c *gin.Context, user *entity.User) {
	c.Set(ContextUserKey, user)
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}

// SetCSRFToken stores the form token rendered into the page.
func SetCSRFToken(c *gin.Context, token string) {
	c.Set(csrfTokenKey, token)
}

// CSRFToken returns the form token for this request, or "".
func CSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}

// DashboardPath returns the landing page for a role.
func DashboardPath(role entity.Role) string {
	switch role {
	case entity.RoleClient:
		return "/client/dashboard"
	case entity.RoleCreator:
		return "/creator/dashboard"
	}
	return "/"
}

// Render executes a page template with the pending flash notices, the
// current user and the form token added to data.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = flash.Pop(c)
	data["CSRFToken"] = CSRFToken(c)
	if user, ok := CurrentUser(c); ok {
		data["CurrentUser"] = user
	}
	c.HTML(status, name, data)
}

// RenderError logs err and answers with the generic failure page.
func RenderError(c *gin.Context, err error) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
	_ = c.Error(err)
	Render(c, http.StatusInternalServerError, "error.html", nil)
	c.Abort()
}
