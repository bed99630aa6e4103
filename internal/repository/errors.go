// Package repository contains the data access layer separated from HTTP
// handlers.  This file defines the error taxonomy shared by every
// repository.  Sentinel values and the ValidationError type let handlers
// map failures to HTTP statuses without inspecting error strings.
package repository

import "errors"

// ErrNotFound is returned when a row lookup, update or delete matches no
// record.  Handlers translate this into HTTP 404 (API) or an error flash
// redirect (web).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update collides with a unique
// constraint, such as a duplicate username or email.  Handlers translate
// this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ValidationError signals bad input detected inside the gateway, most
// importantly a missing foreign key on funciones/pedidos writes.  It is
// deliberately distinct from ErrNotFound: the referenced parent is absent,
// not the record being operated on.  Handlers translate it into HTTP 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError with the given message.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
