// Package middleware provides shared request processing for handlers.
// This file implements the dual-channel authentication pipeline and the
// role hierarchy gate.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/session"
	"github.com/rmarchan/cine-gestion/internal/utils"
)

// Via tags which credential channel produced the identity.
type Via int

const (
	ViaNone    Via = iota // no usable credential
	ViaToken              // verified bearer token
	ViaSession            // server-side session cookie
)

// Resolution is the outcome of running both credential channels.
type Resolution struct {
	Via      Via
	Identity utils.Identity
}

// Resolver runs the two-step credential resolution.  The bearer token is
// tried first; a token that fails verification does not abort the request,
// it simply yields nothing and the session cookie is consulted instead.
// Only when both channels come up empty is the request unauthenticated.
type Resolver struct {
	Secret   string         // JWT signing secret
	Sessions *session.Store // server-side session lookup
}

// Resolve executes the pipeline for one request.
func (r *Resolver) Resolve(c echo.Context) Resolution {
	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		raw := strings.TrimPrefix(auth, "Bearer ")
		if ident, err := utils.ParseAccessToken(r.Secret, raw); err == nil {
			return Resolution{Via: ViaToken, Identity: ident}
		}
		// invalid or expired token: fall through to the session channel
	}
	if ck, err := c.Cookie(session.CookieName); err == nil {
		if ident, err := r.Sessions.Get(c.Request().Context(), ck.Value); err == nil {
			return Resolution{Via: ViaSession, Identity: ident}
		}
	}
	return Resolution{Via: ViaNone}
}

// Context keys under which the resolved identity is stored.
const (
	ctxIdentity = "identity"
	ctxVia      = "auth_via"
)

// CurrentIdentity returns the identity attached by Authenticate or
// WebAuthenticate, if any.
func CurrentIdentity(c echo.Context) (utils.Identity, bool) {
	ident, ok := c.Get(ctxIdentity).(utils.Identity)
	return ident, ok
}

// roleRank orders the fixed hierarchy guest < user < admin.  Unknown roles
// rank below guest and therefore pass no gate.
func roleRank(role string) int {
	switch role {
	case "guest":
		return 1
	case "user":
		return 2
	case "admin":
		return 3
	}
	return 0
}

// Authenticate resolves the identity for API routes.  An unauthenticated
// request is rejected with 401; otherwise the identity and its channel are
// stored in context for handlers and RequireRole.
func (r *Resolver) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := r.Resolve(c)
		if res.Via == ViaNone {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "authentication required",
			})
		}
		c.Set(ctxIdentity, res.Identity)
		c.Set(ctxVia, res.Via)
		return next(c)
	}
}

// RequireRole admits the request only when the resolved identity ranks at
// or above the required role.  It assumes Authenticate ran earlier in the
// chain; a missing identity is treated as unauthenticated rather than
// forbidden.
func RequireRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false,
					"message": "authentication required",
				})
			}
			if roleRank(ident.Role) < roleRank(required) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"success": false,
					"message": "access denied: role " + required + " required",
				})
			}
			return next(c)
		}
	}
}

// WebAuthenticate is the web-mode counterpart of Authenticate: instead of
// a JSON 401 it redirects to the login page with a human-readable reason.
func (r *Resolver) WebAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		res := r.Resolve(c)
		if res.Via == ViaNone {
			return c.Redirect(http.StatusFound,
				"/login?error="+url.QueryEscape("you must log in to access this page"))
		}
		c.Set(ctxIdentity, res.Identity)
		c.Set(ctxVia, res.Via)
		return next(c)
	}
}

// RequireWebRole enforces the role hierarchy for web routes, redirecting
// to the dashboard with a reason instead of returning 403.
func RequireWebRole(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok {
				return c.Redirect(http.StatusFound,
					"/login?error="+url.QueryEscape("you must log in to access this page"))
			}
			if roleRank(ident.Role) < roleRank(required) {
				return c.Redirect(http.StatusFound,
					"/dashboard?error="+url.QueryEscape("you do not have permission to access this section"))
			}
			return next(c)
		}
	}
}
