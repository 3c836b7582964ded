// Package router builds the gin engine and mounts every route.
package router

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"role_portal/internal/feature/auth/domain/entity"
	authhandler "role_portal/internal/feature/auth/transport/handler"
	authmw "role_portal/internal/feature/auth/transport/middleware"
	dashboardhandler "role_portal/internal/feature/dashboard/transport/handler"
	"role_portal/internal/platform/csrf"
	"role_portal/internal/platform/flash"
	platformhandler "role_portal/internal/platform/http/handler"
	platformmw "role_portal/internal/platform/http/middleware"
	"role_portal/internal/platform/metrics"
)

// Dependencies is everything the routes need. It is assembled once in main.
type Dependencies struct {
	Log       zerolog.Logger
	Templates *template.Template

	Sessions authmw.SessionResolver
	Cookie   authmw.SessionCookie
	// Forms signs the anti-forgery tokens of the login and register forms.
	Forms csrf.Signer

	Auth      *authhandler.AuthHandler
	Dashboard *dashboardhandler.DashboardHandler
	Health    *platformhandler.HealthHandler
}

func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(platformmw.RequestLogger(d.Log), platformmw.Recovery(), metrics.Middleware(), flash.Middleware(d.Cookie.Secure))
	r.SetHTMLTemplate(d.Templates)

	r.GET("/healthz", d.Health.Health)
	r.HEAD("/healthz", d.Health.Health)
	r.GET("/metrics", metrics.Handler())

	// HTML pages resolve the session cookie first.
	pages := r.Group("/", authmw.LoadSession(d.Sessions, d.Cookie))
	pages.GET("/", d.Dashboard.Home)

	guest := pages.Group("/", authmw.RedirectIfAuthenticated(), csrf.Protect(d.Forms, d.Cookie.Secure))
	{
		guest.GET("/login", d.Auth.ShowLogin)
		guest.POST("/login", d.Auth.Login)
		guest.GET("/register", d.Auth.ShowRegister)
		guest.POST("/register", d.Auth.Register)
	}

	pages.GET("/client/dashboard", authmw.RequireRole(entity.RoleClient), d.Dashboard.Client)
	pages.GET("/creator/dashboard", authmw.RequireRole(entity.RoleCreator), d.Dashboard.Creator)
	pages.GET("/logout", authmw.RequireAuth(), d.Auth.Logout)

	return r
}
