// Generic CRUD controller.  The six resource types of this application
// differ only in their form shape, validation rules and table, so a single
// parameterized handler replaces six near-identical controllers.  Behavior
// that genuinely diverges (foreign-key checks, the orders feed, user
// deactivation) lives in the repositories or in small specializations.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/repository"
)

// Resource is an API-mode CRUD controller over an injected store.  F is
// the inbound form/DTO type carrying validator tags; T is the persisted
// entity.  Convert turns a validated form into an entity and may itself
// reject input with a repository.ValidationError (range checks that need
// runtime data, date parsing, decimal parsing).
type Resource[F any, T any] struct {
	Name     string // singular entity name used in messages, e.g. "movie"
	Store    repository.Store[T]
	Validate *validator.Validate
	Convert  func(F) (T, error)

	// AfterCreate, when set, runs after a successful insert.  Used by the
	// orders resource to publish the order.placed event.  It must not fail
	// the request.
	AfterCreate func(c echo.Context, created T)
}

// bindForm binds and validates the request body, returning a ready entity.
// The bool result reports success; on failure the response is written.
func (r *Resource[F, T]) bindForm(c echo.Context) (T, bool) {
	var zero T
	var f F
	if err := c.Bind(&f); err != nil {
		_ = fail(c, http.StatusBadRequest, "invalid request body")
		return zero, false
	}
	if err := r.Validate.Struct(f); err != nil {
		_ = fail(c, http.StatusBadRequest, validationMsg(err))
		return zero, false
	}
	entity, err := r.Convert(f)
	if err != nil {
		_ = failFromErr(c, err, r.Name)
		return zero, false
	}
	return entity, true
}

// validationMsg flattens a validator error into one readable line.
func validationMsg(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		e := errs[0]
		switch e.Tag() {
		case "required":
			return "missing required field: " + e.Field()
		case "email":
			return "invalid email format"
		default:
			return "invalid value for field: " + e.Field()
		}
	}
	return "invalid input"
}

// paramID parses the :id path parameter.
func paramID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		_ = fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// List handles GET /api/<entity>.
func (r *Resource[F, T]) List(c echo.Context) error {
	items, err := r.Store.List(c.Request().Context())
	if err != nil {
		return failFromErr(c, err, r.Name)
	}
	if items == nil {
		items = []T{}
	}
	return okList(c, items, len(items))
}

// Get handles GET /api/<entity>/:id.
func (r *Resource[F, T]) Get(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	item, err := r.Store.Get(c.Request().Context(), id)
	if err != nil {
		return failFromErr(c, err, r.Name)
	}
	return okData(c, http.StatusOK, item)
}

// Create handles POST /api/<entity>.
func (r *Resource[F, T]) Create(c echo.Context) error {
	entity, ok := r.bindForm(c)
	if !ok {
		return nil
	}
	created, err := r.Store.Create(c.Request().Context(), entity)
	if err != nil {
		return failFromErr(c, err, r.Name)
	}
	if r.AfterCreate != nil {
		r.AfterCreate(c, created)
	}
	return okMsg(c, http.StatusCreated, r.Name+" created successfully", created)
}

// Update handles PUT /api/<entity>/:id.  Updates are full replacements.
func (r *Resource[F, T]) Update(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	entity, ok := r.bindForm(c)
	if !ok {
		return nil
	}
	updated, err := r.Store.Update(c.Request().Context(), id, entity)
	if err != nil {
		return failFromErr(c, err, r.Name)
	}
	return okMsg(c, http.StatusOK, r.Name+" updated successfully", updated)
}

// Delete handles DELETE /api/<entity>/:id and echoes the removed record.
func (r *Resource[F, T]) Delete(c echo.Context) error {
	id, ok := paramID(c)
	if !ok {
		return nil
	}
	deleted, err := r.Store.Delete(c.Request().Context(), id)
	if err != nil {
		return failFromErr(c, err, r.Name)
	}
	return okMsg(c, http.StatusOK, r.Name+" deleted successfully", deleted)
}
