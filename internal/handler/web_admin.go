// Web-mode user administration under /admin/usuarios.  Admin-only; the
// routes are gated by RequireWebRole("admin") in the router.  Deletion is
// replaced by deactivate/activate toggles, mirroring the API side.
package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/middleware"
	"github.com/rmarchan/cine-gestion/internal/repository"
	"github.com/rmarchan/cine-gestion/internal/utils"
)

const adminUsersPath = "/admin/usuarios"

func (h *AuthHandler) adminData(c echo.Context) echo.Map {
	data := echo.Map{
		"Error":   c.QueryParam("error"),
		"Success": c.QueryParam("success"),
	}
	if ident, ok := middleware.CurrentIdentity(c); ok {
		data["User"] = ident
	}
	return data
}

func redirectAdmin(c echo.Context, param, msg string) error {
	return c.Redirect(http.StatusFound, adminUsersPath+"?"+param+"="+url.QueryEscape(msg))
}

// ListUsersWeb handles GET /admin/usuarios.
func (h *AuthHandler) ListUsersWeb(c echo.Context) error {
	data := h.adminData(c)
	data["Title"] = "Gestión de Usuarios"
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("admin users: list failed: %v", err)
		data["Error"] = "could not load users"
		users = nil
	}
	parts := make([]userPart, 0, len(users))
	for _, u := range users {
		parts = append(parts, sanitize(u))
	}
	data["Usuarios"] = parts
	return c.Render(http.StatusOK, "admin_usuarios.html", data)
}

func (h *AuthHandler) renderUserForm(c echo.Context, action string, values map[string]string, editing bool, errMsg string) error {
	if values == nil {
		values = map[string]string{}
	}
	data := h.adminData(c)
	data["Title"] = "Crear Usuario"
	if editing {
		data["Title"] = "Editar Usuario"
	}
	data["Action"] = action
	data["Values"] = values
	data["Editing"] = editing
	if errMsg != "" {
		data["Error"] = errMsg
	}
	return c.Render(http.StatusOK, "admin_usuario_form.html", data)
}

// NewUserFormWeb handles GET /admin/usuarios/crear.
func (h *AuthHandler) NewUserFormWeb(c echo.Context) error {
	return h.renderUserForm(c, adminUsersPath, nil, false, "")
}

func userFormValues(req registerReq) map[string]string {
	return map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"role":     req.Role,
	}
}

// CreateUserWeb handles POST /admin/usuarios.  Unlike self-registration,
// an admin may assign any role including admin.
func (h *AuthHandler) CreateUserWeb(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return h.renderUserForm(c, adminUsersPath, nil, false, "invalid form submission")
	}
	values := userFormValues(req)
	if err := h.Validate.Struct(req); err != nil {
		return h.renderUserForm(c, adminUsersPath, values, false, validationMsg(err))
	}
	role := req.Role
	if role == "" {
		role = "user"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		c.Logger().Errorf("admin create user: hash failed: %v", err)
		return h.renderUserForm(c, adminUsersPath, values, false, "internal server error")
	}
	if _, err := h.Users.Create(ctx, repository.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}); err != nil {
		return h.renderUserForm(c, adminUsersPath, values, false, webErrMsg(err, "user"))
	}
	return redirectAdmin(c, "success", "user created successfully")
}

// EditUserFormWeb handles GET /admin/usuarios/:id/editar.
func (h *AuthHandler) EditUserFormWeb(c echo.Context) error {
	id, err := parseWebID(c)
	if err != nil {
		return redirectAdmin(c, "error", "invalid id")
	}
	u, err := h.Users.Get(c.Request().Context(), id)
	if err != nil {
		return redirectAdmin(c, "error", webErrMsg(err, "user"))
	}
	values := map[string]string{
		"username": u.Username,
		"email":    u.Email,
		"role":     u.Role,
	}
	return h.renderUserForm(c, adminUsersPath+"/"+c.Param("id")+"/editar", values, true, "")
}

// EditUserWeb handles POST /admin/usuarios/:id/editar.
func (h *AuthHandler) EditUserWeb(c echo.Context) error {
	id, err := parseWebID(c)
	if err != nil {
		return redirectAdmin(c, "error", "invalid id")
	}
	action := adminUsersPath + "/" + c.Param("id") + "/editar"
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return h.renderUserForm(c, action, nil, true, "invalid form submission")
	}
	values := map[string]string{
		"username": req.Username,
		"email":    req.Email,
		"role":     req.Role,
	}
	if err := h.Validate.Struct(req); err != nil {
		return h.renderUserForm(c, action, values, true, validationMsg(err))
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
			c.Logger().Errorf("admin edit user: hash failed: %v", err)
			return h.renderUserForm(c, action, values, true, "internal server error")
		}
		u.PasswordHash = hash
	}

	if _, err := h.Users.Update(c.Request().Context(), id, u); err != nil {
		return h.renderUserForm(c, action, values, true, webErrMsg(err, "user"))
	}
	return redirectAdmin(c, "success", "user updated successfully")
}

// DeactivateUserWeb handles POST /admin/usuarios/:id/desactivar.
func (h *AuthHandler) DeactivateUserWeb(c echo.Context) error {
	return h.toggleActiveWeb(c, false, "user deactivated")
}

// ActivateUserWeb handles POST /admin/usuarios/:id/activar.
func (h *AuthHandler) ActivateUserWeb(c echo.Context) error {
	return h.toggleActiveWeb(c, true, "user activated")
}

func (h *AuthHandler) toggleActiveWeb(c echo.Context, active bool, msg string) error {
	id, err := parseWebID(c)
	if err != nil {
		return redirectAdmin(c, "error", "invalid id")
	}
	if _, err := h.Users.SetActive(c.Request().Context(), id, active); err != nil {
		return redirectAdmin(c, "error", webErrMsg(err, "user"))
	}
	return redirectAdmin(c, "success", msg)
}
