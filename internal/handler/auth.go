// Authentication and user administration endpoints.  Login issues a 24h
// bearer token; the web variants in web_auth.go manage the server-side
// session instead.  User management is admin-only and lives under /auth.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/config"
	"github.com/rmarchan/cine-gestion/internal/middleware"
	"github.com/rmarchan/cine-gestion/internal/repository"
	"github.com/rmarchan/cine-gestion/internal/session"
	"github.com/rmarchan/cine-gestion/internal/utils"
)

// UserOps is the user gateway contract: the five-operation store plus the
// lookups and the activation toggle only users have.
type UserOps interface {
	repository.Store[repository.User]
	GetByUsername(ctx context.Context, username string) (repository.User, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	SetActive(ctx context.Context, id uint64, active bool) (repository.User, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserOps
	Sessions *session.Store
	Validate *validator.Validate
}

func NewAuthHandler(cfg config.Config, users UserOps, sessions *session.Store, v *validator.Validate) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Sessions: sessions, Validate: v}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerReq struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=guest user admin"`
}

type userUpdateReq struct {
	Username string `json:"username" form:"username" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" form:"role" validate:"required,oneof=guest user admin"`
	Active   *bool  `json:"activo" form:"activo"`
}

// userPart is the sanitized user payload; the hash never leaves the server.
type userPart struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Active   bool   `json:"activo"`
}

func sanitize(u repository.User) userPart {
	return userPart{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, Active: u.Active}
}

// authenticate checks a username/password pair against the user table.
// All failure modes collapse into a single "invalid credentials" outcome
// so the response does not reveal whether the username exists.
func (h *AuthHandler) authenticate(ctx context.Context, username, password string) (repository.User, bool) {
	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil {
		return repository.User{}, false
	}
	if !u.Active {
		return repository.User{}, false
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return repository.User{}, false
	}
	return u, true
}

// Login handles POST /auth/login: verify credentials and return a signed
// bearer token alongside the sanitized user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMsg(err))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, ok := h.authenticate(ctx, req.Username, req.Password)
	if !ok {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.NewAccessToken(h.Cfg.JWTSecret,
		utils.Identity{ID: u.ID, Username: u.Username, Role: u.Role}, h.Cfg.TokenTTLHours)
	if err != nil {
		c.Logger().Errorf("login: issue token failed: %v", err)
		return fail(c, http.StatusInternalServerError, "internal server error")
	}

	return okMsg(c, http.StatusOK, "login successful", echo.Map{
		"user":  sanitize(u),
		"token": token.Token,
	})
}

// Register handles POST /auth/register.  The role defaults to "user";
// callers cannot self-assign admin here, that path goes through the admin
// user management.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMsg(err))
	}
	role := req.Role
	if role == "" || role == "admin" {
		role = "user"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		c.Logger().Errorf("register: hash failed: %v", err)
		return fail(c, http.StatusInternalServerError, "internal server error")
	}

	created, err := h.Users.Create(ctx, repository.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	})
	if err != nil {
		return failFromErr(c, err, "user")
	}
	return okMsg(c, http.StatusCreated, "user registered successfully", sanitize(created))
}

// Logout handles POST /auth/logout.  Bearer tokens are stateless; the
// client discards the token and that is the whole operation.
func (h *AuthHandler) Logout(c echo.Context) error {
	return okMsg(c, http.StatusOK, "logout successful, discard the token client-side", nil)
}

// Me handles GET /auth/me: return the fresh user row behind the resolved
// identity.
func (h *AuthHandler) Me(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "authentication required")
	}
	u, err := h.Users.Get(c.Request().Context(), ident.ID)
	if err != nil {
		return failFromErr(c, err, "user")
	}
	return okData(c, http.StatusOK, sanitize(u))
}

// ----- admin user management (API) -----

// ListUsers handles GET /auth/usuarios.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return failFromErr(c, err, "user")
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	return okList(c, out, len(out))
}

// GetUser handles GET /auth/usuarios/:id.
func (h *AuthHandler) GetUser(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	u, err := h.Users.Get(c.Request().Context(), id)
	if err != nil {
		return failFromErr(c, err, "user")
	}
	return okData(c, http.StatusOK, sanitize(u))
}

// UpdateUser handles PUT /auth/usuarios/:id.  The uniqueness check in the
// gateway excludes the row being edited, so re-submitting the current
// username or email is not a conflict.
func (h *AuthHandler) UpdateUser(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, http.StatusBadRequest, validationMsg(err))
	}

	u := repository.User{
		Username: strings.TrimSpace(req.Username),
		Email:    req.Email,
		Role:     req.Role,
		Active:   true,
	}
	if req.Active != nil {
		u.Active = *req.Active
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
		if err != nil {
			c.Logger().Errorf("update user: hash failed: %v", err)
			return fail(c, http.StatusInternalServerError, "internal server error")
		}
		u.PasswordHash = hash
	}

	updated, err := h.Users.Update(c.Request().Context(), id, u)
	if err != nil {
		return failFromErr(c, err, "user")
	}
	return okMsg(c, http.StatusOK, "user updated successfully", sanitize(updated))
}

// DeleteUser handles DELETE /auth/usuarios/:id.  Users are deactivated,
// never removed; see the gateway for the rationale.
func (h *AuthHandler) DeleteUser(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	u, err := h.Users.Delete(c.Request().Context(), id)
	if err != nil {
		return failFromErr(c, err, "user")
	}
	return okMsg(c, http.StatusOK, "user deactivated successfully", sanitize(u))
}
