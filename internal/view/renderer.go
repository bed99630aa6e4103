// Package view adapts html/template to echo's Renderer interface.  The
// templates themselves are plain files under web/templates; they are
// replaceable collaborators, not application logic.
package view

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Renderer executes named templates parsed from a glob at startup.
type Renderer struct {
	templates *template.Template
}

// New parses every template matching pattern (e.g. "web/templates/*.html").
func New(pattern string) (*Renderer, error) {
	t, err := template.ParseGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
