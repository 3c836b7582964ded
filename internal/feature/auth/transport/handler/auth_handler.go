// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"role_portal/internal/feature/auth/domain/entity"
	"role_portal/internal/feature/auth/transport/http/dto"
	"role_portal/internal/feature/auth/transport/middleware"
	"role_portal/internal/feature/auth/usecase"
	"role_portal/internal/platform/flash"
	"role_portal/internal/platform/metrics"
	"role_portal/internal/platform/web"
)

// Notices shown by the auth pages.
const (
	MsgLoginSuccess  = "Login successful!"
	MsgLoginFailed   = "Login unsuccessful. Please check username and password."
	MsgRegistered    = "Your account has been created! You can now log in."
	MsgLoggedOut     = "You have been logged out."
	MsgUsernameTaken = "That username is already taken. Please choose a different one."
)

// AuthUsecase defines the account operations the handler needs.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, username, password string, role entity.Role) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
}

// SessionManager starts and ends login sessions.
type SessionManager interface {
	Start(ctx context.Context, userID uint, userAgent, ip string) (string, time.Time, error)
	End(ctx context.Context, token string) error
}

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	auth     AuthUsecase
	sessions SessionManager
	cookie   middleware.SessionCookie
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase, sessions SessionManager, cookie middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cookie: cookie}
}

// ShowLogin renders the empty login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, dto.LoginReq{}, nil)
}

// Login checks the submitted credentials, starts a session and redirects to
// the user's dashboard. An unknown username and a wrong password produce
// the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	log := zerolog.Ctx(c.Request.Context())

	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		fields, _ := fieldErrors(&req, err)
		metrics.RecordAuth(metrics.FlowLogin, metrics.OutcomeInvalid)
		h.renderLogin(c, http.StatusUnprocessableEntity, req, fields)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			log.Warn().Str("username", req.Username).Msg("login failed")
			metrics.RecordAuth(metrics.FlowLogin, metrics.OutcomeRejected)
			flash.Add(c, flash.Danger, MsgLoginFailed)
			h.renderLogin(c, http.StatusUnauthorized, req, nil)
			return
		}
		metrics.RecordAuth(metrics.FlowLogin, metrics.OutcomeError)
		web.RenderError(c, err)
		return
	}

	token, expiresAt, err := h.sessions.Start(c.Request.Context(), user.ID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		metrics.RecordAuth(metrics.FlowLogin, metrics.OutcomeError)
		web.RenderError(c, err)
		return
	}
	h.cookie.Write(c, token, expiresAt)

	log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("login successful")
	metrics.RecordAuth(metrics.FlowLogin, metrics.OutcomeSuccess)
	flash.Add(c, flash.Success, MsgLoginSuccess)
	c.Redirect(http.StatusFound, web.DashboardPath(user.Role))
}

// ShowRegister renders the empty registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.renderRegister(c, http.StatusOK, dto.RegisterReq{}, nil)
}

// Register creates an account and sends the user to the login page.
func (h *AuthHandler) Register(c *gin.Context) {
	log := zerolog.Ctx(c.Request.Context())

	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		fields, _ := fieldErrors(&req, err)
		metrics.RecordAuth(metrics.FlowRegister, metrics.OutcomeInvalid)
		h.renderRegister(c, http.StatusUnprocessableEntity, req, fields)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, entity.Role(req.Role))
	if err != nil {
		var verr *usecase.ValidationError
		switch {
		case errors.As(err, &verr):
			metrics.RecordAuth(metrics.FlowRegister, metrics.OutcomeInvalid)
			h.renderRegister(c, http.StatusUnprocessableEntity, req, verr.Fields)
		case errors.Is(err, usecase.ErrDuplicateUsername):
			log.Warn().Str("username", req.Username).Msg("registration rejected: username taken")
			metrics.RecordAuth(metrics.FlowRegister, metrics.OutcomeRejected)
			h.renderRegister(c, http.StatusUnprocessableEntity, req, map[string]string{"username": MsgUsernameTaken})
		default:
			metrics.RecordAuth(metrics.FlowRegister, metrics.OutcomeError)
			web.RenderError(c, err)
		}
		return
	}

	log.Info().Uint("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")
	metrics.RecordAuth(metrics.FlowRegister, metrics.OutcomeSuccess)
	flash.Add(c, flash.Success, MsgRegistered)
	c.Redirect(http.StatusFound, "/login")
}

// Logout ends the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.End(c.Request.Context(), h.cookie.Read(c)); err != nil {
		metrics.RecordAuth(metrics.FlowLogout, metrics.OutcomeError)
		web.RenderError(c, err)
		return
	}
	h.cookie.Clear(c)

	metrics.RecordAuth(metrics.FlowLogout, metrics.OutcomeSuccess)
	flash.Add(c, flash.Info, MsgLoggedOut)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form dto.LoginReq, fields map[string]string) {
	form.Password = ""
	web.Render(c, status, "login.html", gin.H{
		"Title":  "Login",
		"Form":   form,
		"Errors": nonNil(fields),
	})
}

func (h *AuthHandler) renderRegister(c *gin.Context, status int, form dto.RegisterReq, fields map[string]string) {
	form.Password, form.ConfirmPassword = "", ""
	web.Render(c, status, "register.html", gin.H{
		"Title":  "Register",
		"Form":   form,
		"Errors": nonNil(fields),
		"Roles":  entity.Roles(),
	})
}

func nonNil(fields map[string]string) map[string]string {
	if fields == nil {
		return map[string]string{}
	}
	return fields
}
