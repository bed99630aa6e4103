// Web-mode authentication: login form, session creation and teardown, and
// the dashboard.  The session is the long-lived credential here; tokens
// stay on the API side.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/middleware"
	"github.com/rmarchan/cine-gestion/internal/session"
	"github.com/rmarchan/cine-gestion/internal/utils"
)

// ShowLogin handles GET /login.  An already-authenticated browser goes
// straight to the dashboard.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if ck, err := c.Cookie(session.CookieName); err == nil {
		if _, err := h.Sessions.Get(c.Request().Context(), ck.Value); err == nil {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
	}
	return c.Render(http.StatusOK, "login.html", echo.Map{
		"Title":   "Iniciar sesión",
		"Error":   c.QueryParam("error"),
		"Success": c.QueryParam("success"),
	})
}

func (h *AuthHandler) renderLogin(c echo.Context, errMsg string) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{
		"Title": "Iniciar sesión",
		"Error": errMsg,
	})
}

// LoginWeb handles POST /login-web: verify the form credentials and start
// a server-side session.  Failures re-render the login form with an
// inline error, never a bare error page.
func (h *AuthHandler) LoginWeb(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return h.renderLogin(c, "invalid form submission")
	}
	if err := h.Validate.Struct(req); err != nil {
		return h.renderLogin(c, "username and password are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, ok := h.authenticate(ctx, req.Username, req.Password)
	if !ok {
		return h.renderLogin(c, "invalid credentials")
	}

	id, err := h.Sessions.Create(ctx, utils.Identity{ID: u.ID, Username: u.Username, Role: u.Role})
	if err != nil {
		c.Logger().Errorf("login-web: session create failed: %v", err)
		return h.renderLogin(c, "could not start session, try again")
	}
	c.SetCookie(h.Sessions.Cookie(id))
	return c.Redirect(http.StatusFound, "/dashboard")
}

// LogoutWeb handles POST /logout-web: destroy the session and clear the
// cookie.
func (h *AuthHandler) LogoutWeb(c echo.Context) error {
	if ck, err := c.Cookie(session.CookieName); err == nil {
		_ = h.Sessions.Destroy(c.Request().Context(), ck.Value)
	}
	c.SetCookie(session.ExpiredCookie())
	return c.Redirect(http.StatusFound, "/login")
}

// Dashboard handles GET /dashboard for authenticated web users.
func (h *AuthHandler) Dashboard(c echo.Context) error {
	ident, _ := middleware.CurrentIdentity(c)
	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"Title":   "Panel de control",
		"User":    ident,
		"Error":   c.QueryParam("error"),
		"Success": c.QueryParam("success"),
	})
}

// Index handles GET /: a plain navigation page.
func Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", echo.Map{
		"Title":   "Sistema de Gestión de Cine",
		"Message": "Bienvenido al sistema de gestión de productos y pedidos",
	})
}
