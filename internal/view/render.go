//
// internal/view/render.go
//
// Page layouts for public sites: the composed page, the two gates, and
// the expired, not-found, and error notices.
//
// Public helpers
// --------------
//   - New     – parse the embedded layout set once at start-up.
//   - Render  – execute one layout into a buffer, then write it with the
//               given status.  A template failure never leaves a half
//               written response.
//
// Layouts share "top" and "bottom" sub-templates from layout.html, so every
// page gets the same <head>, theme variables, and footer.
//

package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/head"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/theme"
)

//go:embed templates
var templates embed.FS

// Layout names.
const (
	LayoutPage     = "page"
	LayoutPassword = "password"
	LayoutLead     = "lead"
	LayoutExpired  = "expired"
	LayoutNotFound = "notfound"
	LayoutError    = "error"
)

// Data is what every layout receives.  Unused fields stay zero.
type Data struct {
	Head     *head.Builder
	Theme    theme.Vars
	Site     *site.Site
	Sections []template.HTML
	Form     template.HTML
	Message  string
}

// Renderer executes layouts.  Safe for concurrent use.
type Renderer struct {
	tpl *template.Template
}

// New parses the embedded layouts.
func New() (*Renderer, error) {
	tpl, err := theme.Load(templates, "templates", nil)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{LayoutPage, LayoutPassword, LayoutLead, LayoutExpired, LayoutNotFound, LayoutError} {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("view: layout %q missing", name)
		}
	}
	return &Renderer{tpl: tpl}, nil
}

// Render writes layout name with status.  On a template error nothing is
// written and the error is returned for the caller to log.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, d Data) error {
	if d.Theme.Preset == "" {
		if d.Site != nil {
			d.Theme = theme.Resolve(d.Site)
		} else {
			d.Theme = theme.Resolve(&site.Site{})
		}
	}

	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, d); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
