// Package handler serves the home page and the role dashboards.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"role_portal/internal/platform/web"
)

// DashboardHandler renders pages whose content depends only on the signed-in user.
type DashboardHandler struct{}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Home renders the landing page for everyone.
func (h *DashboardHandler) Home(c *gin.Context) {
	web.Render(c, http.StatusOK, "index.html", gin.H{"Title": "Home"})
}

// Client renders the client dashboard. Mount it behind RequireRole(CLIENT).
func (h *DashboardHandler) Client(c *gin.Context) {
	h.dashboard(c, "client_dashboard.html", "Client Dashboard")
}

// Creator renders the creator dashboard. Mount it behind RequireRole(CREATOR).
func (h *DashboardHandler) Creator(c *gin.Context) {
	h.dashboard(c, "creator_dashboard.html", "Creator Dashboard")
}

func (h *DashboardHandler) dashboard(c *gin.Context, name, title string) {
	user, ok := web.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	web.Render(c, http.StatusOK, name, gin.H{"Title": title, "Name": user.Username})
}
