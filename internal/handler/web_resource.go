// Web-mode counterpart of the generic Resource controller.  The same
// entity descriptor idea extends to the HTML surface: two shared templates
// (a listing table and a form) are fed per-entity column and field
// definitions, so the six EJS view families of the old system collapse
// into one parameterized controller.
//
// Failure contract: a failed submission re-renders the originating form
// with the submitted values preserved and an inline error; a successful
// mutation redirects to the listing page.  Web mode never surfaces a raw
// error page.
package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/middleware"
	"github.com/rmarchan/cine-gestion/internal/repository"
)

// FormField describes one input of the shared form template.
type FormField struct {
	Name  string // input name attribute (matches the form binding tag)
	Label string // human label
	Type  string // HTML input type: text, number, datetime-local
}

// webRow is one row of the shared listing template.
type webRow struct {
	ID    uint64
	Cells []string
}

// WebResource renders the HTML surface for one entity on top of its API
// controller.  Row/FormValues/ItemValues project the entity into strings
// for the shared templates.
type WebResource[F any, T any] struct {
	Res        *Resource[F, T]
	Slug       string      // URL segment and listing route, e.g. "productos"
	Title      string      // page heading, e.g. "Productos"
	Columns    []string    // listing table headers
	FormFields []FormField // inputs of the shared form template
	Row        func(T) []string
	ItemID     func(T) uint64
	FormValues func(F) map[string]string // preserve a submitted form
	ItemValues func(T) map[string]string // prefill the edit form
}

func (w *WebResource[F, T]) listPath() string { return "/" + w.Slug }

func (w *WebResource[F, T]) baseData(c echo.Context) echo.Map {
	data := echo.Map{
		"Title":   w.Title,
		"Slug":    w.Slug,
		"Error":   c.QueryParam("error"),
		"Success": c.QueryParam("success"),
	}
	if ident, ok := middleware.CurrentIdentity(c); ok {
		data["User"] = ident
	}
	return data
}

// List handles GET /<slug>.  A storage failure renders the page with an
// inline error instead of bubbling up.
func (w *WebResource[F, T]) List(c echo.Context) error {
	data := w.baseData(c)
	data["Columns"] = w.Columns

	items, err := w.Res.Store.List(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("%s: list failed: %v", w.Slug, err)
		data["Error"] = "could not load " + w.Title
		data["Rows"] = []webRow{}
		return c.Render(http.StatusOK, "resource_list.html", data)
	}
	rows := make([]webRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, webRow{ID: w.ItemID(it), Cells: w.Row(it)})
	}
	data["Rows"] = rows
	return c.Render(http.StatusOK, "resource_list.html", data)
}

func (w *WebResource[F, T]) renderForm(c echo.Context, action string, values map[string]string, editing bool, errMsg string) error {
	if values == nil {
		values = map[string]string{}
	}
	data := w.baseData(c)
	data["Fields"] = w.FormFields
	data["Values"] = values
	data["Action"] = action
	data["Editing"] = editing
	if errMsg != "" {
		data["Error"] = errMsg
	}
	return c.Render(http.StatusOK, "resource_form.html", data)
}

// NewForm handles GET /<slug>/crear.
func (w *WebResource[F, T]) NewForm(c echo.Context) error {
	return w.renderForm(c, w.listPath(), nil, false, "")
}

// Create handles POST /<slug>.
func (w *WebResource[F, T]) Create(c echo.Context) error {
	var f F
	if err := c.Bind(&f); err != nil {
		return w.renderForm(c, w.listPath(), nil, false, "invalid form submission")
	}
	values := w.FormValues(f)
	if err := w.Res.Validate.Struct(f); err != nil {
		return w.renderForm(c, w.listPath(), values, false, validationMsg(err))
	}
	entity, err := w.Res.Convert(f)
	if err != nil {
		return w.renderForm(c, w.listPath(), values, false, webErrMsg(err, w.Res.Name))
	}
	created, err := w.Res.Store.Create(c.Request().Context(), entity)
	if err != nil {
		return w.renderForm(c, w.listPath(), values, false, webErrMsg(err, w.Res.Name))
	}
	if w.Res.AfterCreate != nil {
		w.Res.AfterCreate(c, created)
	}
	return c.Redirect(http.StatusFound,
		w.listPath()+"?success="+url.QueryEscape(w.Res.Name+" created successfully"))
}

// EditForm handles GET /<slug>/:id/editar.
func (w *WebResource[F, T]) EditForm(c echo.Context) error {
	id, err := parseWebID(c)
	if err != nil {
		return w.redirectError(c, "invalid id")
	}
	item, err := w.Res.Store.Get(c.Request().Context(), id)
	if err != nil {
		return w.redirectError(c, webErrMsg(err, w.Res.Name))
	}
	return w.renderForm(c, w.editPath(c), w.ItemValues(item), true, "")
}

// Edit handles POST /<slug>/:id/editar (method-override for PUT).
func (w *WebResource[F, T]) Edit(c echo.Context) error {
	id, err := parseWebID(c)
	if err != nil {
		return w.redirectError(c, "invalid id")
	}
	var f F
	if err := c.Bind(&f); err != nil {
		return w.renderForm(c, w.editPath(c), nil, true, "invalid form submission")
	}
	values := w.FormValues(f)
	if err := w.Res.Validate.Struct(f); err != nil {
		return w.renderForm(c, w.editPath(c), values, true, validationMsg(err))
	}
	entity, err := w.Res.Convert(f)
	if err != nil {
		return w.renderForm(c, w.editPath(c), values, true, webErrMsg(err, w.Res.Name))
	}
	if _, err := w.Res.Store.Update(c.Request().Context(), id, entity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return w.redirectError(c, w.Res.Name+" not found")
		}
		return w.renderForm(c, w.editPath(c), values, true, webErrMsg(err, w.Res.Name))
	}
	return c.Redirect(http.StatusFound,
		w.listPath()+"?success="+url.QueryEscape(w.Res.Name+" updated successfully"))
}

func (w *WebResource[F, T]) editPath(c echo.Context) string {
	return w.listPath() + "/" + c.Param("id") + "/editar"
}

func (w *WebResource[F, T]) redirectError(c echo.Context, msg string) error {
	return c.Redirect(http.StatusFound, w.listPath()+"?error="+url.QueryEscape(msg))
}

// parseWebID parses the :id path parameter for web routes.
func parseWebID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// webErrMsg renders a gateway error as an inline form message.  Internal
// failures are logged elsewhere and show a generic line; validation and
// conflict errors surface their own wording.
func webErrMsg(err error, entity string) string {
	var v *repository.ValidationError
	switch {
	case errors.As(err, &v):
		return v.Msg
	case errors.Is(err, repository.ErrNotFound):
		return entity + " not found"
	case errors.Is(err, repository.ErrConflict):
		return entity + " already exists"
	default:
		return "internal server error"
	}
}
