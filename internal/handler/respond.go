// Package handler contains the HTTP controllers.  Every API response uses
// the same envelope: {"success": bool, "data"/"message": ...}.  This file
// holds the envelope helpers and the mapping from gateway errors to HTTP
// statuses.  Internal error text never reaches the client; the cause is
// logged and a fixed message goes out instead.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmarchan/cine-gestion/internal/repository"
)

func okData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func okList(c echo.Context, items interface{}, count int) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items, "count": count})
}

func okMsg(c echo.Context, status int, msg string, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "message": msg, "data": data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "message": msg})
}

// failFromErr maps a gateway error onto the envelope.  entity names the
// resource for the 404 message ("movie not found" and so on).
func failFromErr(c echo.Context, err error, entity string) error {
	var v *repository.ValidationError
	switch {
	case errors.As(err, &v):
		return fail(c, http.StatusBadRequest, v.Msg)
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, entity+" not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, entity+" already exists")
	default:
		c.Logger().Errorf("%s: unexpected error: %v", entity, err)
		return fail(c, http.StatusInternalServerError, "internal server error")
	}
}
