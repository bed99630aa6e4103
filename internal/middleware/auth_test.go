package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rmarchan/cine-gestion/internal/session"
	"github.com/rmarchan/cine-gestion/internal/utils"
)

const testSecret = "middleware-test-secret"

func newTestResolver(t *testing.T) (*Resolver, *session.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	sessions := session.NewStore(rdb, 24)
	return &Resolver{Secret: testSecret, Sessions: sessions}, sessions
}

func runResolve(t *testing.T, r *Resolver, decorate func(*http.Request)) Resolution {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/peliculas", nil)
	if decorate != nil {
		decorate(req)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	return r.Resolve(c)
}

func TestResolveBearerToken(t *testing.T) {
	r, _ := newTestResolver(t)
	ident := utils.Identity{ID: 3, Username: "ana", Role: "admin"}
	tok, err := utils.NewAccessToken(testSecret, ident, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	res := runResolve(t, r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	if res.Via != ViaToken {
		t.Fatalf("expected ViaToken, got %v", res.Via)
	}
	if res.Identity != ident {
		t.Fatalf("identity mismatch: %+v", res.Identity)
	}
}

func TestResolveTokenTakesPriorityOverSession(t *testing.T) {
	r, sessions := newTestResolver(t)
	tokenIdent := utils.Identity{ID: 1, Username: "token-user", Role: "admin"}
	sessIdent := utils.Identity{ID: 2, Username: "session-user", Role: "user"}

	tok, err := utils.NewAccessToken(testSecret, tokenIdent, 1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sid, err := sessions.Create(context.Background(), sessIdent)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	res := runResolve(t, r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	})
	if res.Via != ViaToken {
		t.Fatalf("expected token channel to win, got %v", res.Via)
	}
	if res.Identity.Username != "token-user" {
		t.Fatalf("expected token identity, got %+v", res.Identity)
	}
}

// A broken bearer token must not abort the request: the session cookie is
// consulted next and can still admit it.
func TestResolveInvalidTokenFallsThroughToSession(t *testing.T) {
	r, sessions := newTestResolver(t)
	sessIdent := utils.Identity{ID: 5, Username: "carlos", Role: "user"}
	sid, err := sessions.Create(context.Background(), sessIdent)
	if err != nil {
		t.Fatalf("session: %v", err)
	}

	res := runResolve(t, r, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer this.is.garbage")
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sid})
	})
	if res.Via != ViaSession {
		t.Fatalf("expected session fallback, got %v", res.Via)
	}
	if res.Identity != sessIdent {
		t.Fatalf("identity mismatch: %+v", res.Identity)
	}
}

func TestResolveNoCredentials(t *testing.T) {
	r, _ := newTestResolver(t)
	res := runResolve(t, r, nil)
	if res.Via != ViaNone {
		t.Fatalf("expected ViaNone, got %v", res.Via)
	}
}

func TestAuthenticateRejectsAnonymous(t *testing.T) {
	r, _ := newTestResolver(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/peliculas", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := r.Authenticate(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"success":false`) {
		t.Fatalf("expected failure envelope, got %s", rec.Body.String())
	}
}

func TestRequireRoleHierarchy(t *testing.T) {
	cases := []struct {
		role     string
		required string
		admitted bool
	}{
		{"admin", "admin", true},
		{"admin", "user", true},
		{"user", "user", true},
		{"user", "admin", false},
		{"guest", "user", false},
		{"guest", "guest", true},
		{"banana", "guest", false},
	}
	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("identity", utils.Identity{ID: 1, Username: "x", Role: tc.role})

		ran := false
		h := RequireRole(tc.required)(func(c echo.Context) error {
			ran = true
			return c.NoContent(http.StatusOK)
		})
		if err := h(c); err != nil {
			t.Fatalf("%s vs %s: %v", tc.role, tc.required, err)
		}
		if ran != tc.admitted {
			t.Fatalf("role %q against required %q: admitted=%v, want %v", tc.role, tc.required, ran, tc.admitted)
		}
		if !tc.admitted && rec.Code != http.StatusForbidden {
			t.Fatalf("role %q against required %q: expected 403, got %d", tc.role, tc.required, rec.Code)
		}
	}
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	h := RequireRole("user")(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing identity, got %d", rec.Code)
	}
}

func TestWebAuthenticateRedirectsAnonymous(t *testing.T) {
	r, _ := newTestResolver(t)
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/productos", nil), rec)

	h := r.WebAuthenticate(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?error=") {
		t.Fatalf("expected login redirect, got %q", loc)
	}
}

func TestRequireWebRoleRedirectsToDashboard(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/usuarios", nil), rec)
	c.Set("identity", utils.Identity{ID: 2, Username: "carlos", Role: "user"})

	h := RequireWebRole("admin")(func(c echo.Context) error {
		t.Fatal("handler must not run")
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("middleware: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/dashboard?error=") {
		t.Fatalf("expected dashboard redirect, got %q", loc)
	}
}
