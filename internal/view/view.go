// Package view renders the application's HTML pages. Templates are
// embedded into the binary and parsed once at startup; handlers pass a
// Data value naming the template to execute.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-board/internal/model"
)

//go:embed templates/*.html
var files embed.FS

// Data carries everything a page template may need. AccountID is the
// logged-in caller (empty for guests) and Flash is a one-shot notice
// consumed from the flash cookie; the per-page fields are filled only
// by the handlers that use them.
type Data struct {
	AccountID string
	Flash     string
	Posts     []model.Post
	Post      model.Post
	Query     string
	Filter    string
}

// Renderer implements echo.Renderer on top of html/template.
type Renderer struct {
	t *template.Template
}

// NewRenderer parses the embedded templates. Parse errors are
// programming mistakes and surface at startup, not per request.
func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{t: t}, nil
}

// Render executes the named template. It satisfies echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.t.ExecuteTemplate(w, name, data)
}
