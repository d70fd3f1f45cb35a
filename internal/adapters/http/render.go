package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are the renderable templates; each is parsed together with the base
// layout so they can all define their own "content" block.
var pages = []string{
	"login.html",
	"register.html",
	"tasks.html",
	"task_form.html",
}

// Renderer implements echo.Renderer over the embedded HTML templates.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		templates[page] = tpl
	}

	return &Renderer{templates: templates}, nil
}

// Render renders a named page template into the base layout.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template: %s", name)
	}
	return tpl.ExecuteTemplate(w, "base", data)
}
