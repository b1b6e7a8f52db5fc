// internal/form/renderer.go
//
// HTML renderer for form definitions.
//
// Context
//   Converts a Def into plain, accessible markup: a <form> posting to the
//   caller's action, one wrapped input per field, HTML5 validation hints,
//   and two hidden meta inputs (csrf_token, render_ts) that Validate checks
//   on the way back in.
//
// Style
//   Output HTML carries no framework classes, so site themes style it via
//   element selectors or the class hooks below.  Each input gets
//   id="fld-{form}-{name}" and is wrapped in <div class="form-field">.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// Hidden is one extra hidden input, written in order.
type Hidden struct {
	Name  string
	Value string
}

// RenderOptions bundles per-render parameters.
type RenderOptions struct {
	Action  string            // form action URL
	Hidden  []Hidden          // slug, section id, source, ...
	Prefill map[string]string // previously submitted values
	Omit    map[string]bool   // optional fields the section hides
	Submit  string            // overrides Def.Submit
	Error   string            // form-level message shown above the fields
}

// Render returns the markup for form id.
func (s *Set) Render(id string, opts RenderOptions) (template.HTML, error) {
	d, ok := s.Def(id)
	if !ok {
		return "", fmt.Errorf("form: unknown form %q", id)
	}
	tok, err := s.guard.Token()
	if err != nil {
		return "", fmt.Errorf("form: csrf token: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<form class="site-form site-form--%s" method="post" action="%s" novalidate>`+"\n",
		html.EscapeString(d.ID), html.EscapeString(opts.Action))

	if opts.Error != "" {
		buf.WriteString(`<p class="form-error" role="alert">` + html.EscapeString(opts.Error) + `</p>` + "\n")
	}

	for i := range d.Fields {
		f := &d.Fields[i]
		if opts.Omit[f.Name] && !f.Required {
			continue
		}
		writeField(&buf, d.ID, f, opts.Prefill)
	}

	for _, h := range opts.Hidden {
		writeHidden(&buf, h.Name, h.Value)
	}
	writeHidden(&buf, "csrf_token", tok)
	writeHidden(&buf, "render_ts", strconv.FormatInt(s.guard.now().UnixMicro(), 10))

	submit := opts.Submit
	if submit == "" {
		submit = d.Submit
	}
	if submit == "" {
		submit = "Submit"
	}
	buf.WriteString(`<button type="submit">` + html.EscapeString(submit) + `</button>` + "\n")
	buf.WriteString(`</form>`)
	return template.HTML(buf.String()), nil
}

// writeField emits one wrapped, labelled input.
func writeField(buf *bytes.Buffer, formID string, f *FieldDef, prefill map[string]string) {
	id := "fld-" + html.EscapeString(formID) + "-" + html.EscapeString(f.Name)
	val := prefill[f.Name]

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	if f.Type == "textarea" {
		buf.WriteString(`<textarea id="` + id + `" name="` + html.EscapeString(f.Name) + `" rows="5"`)
		writeConstraints(buf, f)
		buf.WriteString(`>` + html.EscapeString(val) + `</textarea>` + "\n")
	} else {
		buf.WriteString(`<input id="` + id + `" name="` + html.EscapeString(f.Name) + `" type="` + f.Type + `"`)
		writeConstraints(buf, f)
		// password fields are never prefilled
		if val != "" && f.Type != "password" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		switch f.Type {
		case "email":
			buf.WriteString(` autocomplete="email"`)
		case "tel":
			buf.WriteString(` autocomplete="tel"`)
		case "password":
			buf.WriteString(` autocomplete="current-password"`)
		}
		buf.WriteString(`>` + "\n")
	}

	buf.WriteString(`</div>` + "\n")
}

func writeConstraints(buf *bytes.Buffer, f *FieldDef) {
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Required {
		buf.WriteString(` required`)
	}
	if f.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
	}
	if f.Pattern != "" && f.Type != "textarea" {
		buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
	}
}

func writeHidden(buf *bytes.Buffer, name, value string) {
	buf.WriteString(`<input type="hidden" name="` + html.EscapeString(name) +
		`" value="` + html.EscapeString(value) + `">` + "\n")
}
