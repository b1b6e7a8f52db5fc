// Package head assembles the <head> of one rendered page: title,
// description, meta and link tags, and JSON-LD.  ForSite and ForGate fill
// a Builder; the base layout calls Title, Metas, Links, and JSON.
//
// Every value is escaped on the way in, so the render methods return
// template.HTML.  A Builder belongs to one render and is not safe for
// concurrent use.
package head

import (
	"encoding/json"
	"html/template"
	"strings"
	"unicode/utf8"
)

const maxDescription = 160

type Builder struct {
	title       string
	description string

	metas  []string
	links  []string
	jsonLD []string

	seen map[string]bool
}

func New() *Builder { return &Builder{seen: map[string]bool{}} }

// SetTitle replaces the title.
func (b *Builder) SetTitle(t string) { b.title = strings.TrimSpace(t) }

// SetDescription collapses whitespace and clips d to 160 runes.
func (b *Builder) SetDescription(d string) {
	d = strings.Join(strings.Fields(d), " ")
	if utf8.RuneCountInString(d) > maxDescription {
		r := []rune(d)[:maxDescription-1]
		d = strings.TrimSpace(string(r)) + "…"
	}
	b.description = d
}

func (b *Builder) TitleText() string { return b.title }

func (b *Builder) Title() template.HTML {
	if b.title == "" {
		return ""
	}
	return template.HTML("<title>" + esc(b.title) + "</title>")
}

// Name adds <meta name content>; Property adds the Open Graph form.  The
// first value for a given name wins and empty content is dropped.
func (b *Builder) Name(name, content string) { b.meta("name", name, content) }

func (b *Builder) Property(prop, content string) { b.meta("property", prop, content) }

func (b *Builder) meta(attr, key, content string) {
	if content == "" || b.once(attr+"\x00"+key) {
		return
	}
	b.metas = append(b.metas, `<meta `+attr+`="`+esc(key)+`" content="`+esc(content)+`">`)
}

func (b *Builder) Link(rel, href string) {
	if href == "" || b.once("link\x00"+rel+"\x00"+href) {
		return
	}
	b.links = append(b.links, `<link rel="`+esc(rel)+`" href="`+esc(href)+`">`)
}

// JSONLD adds v as a structured-data block.  A value that does not
// marshal is dropped.  encoding/json escapes '<', so no block can close
// its script element.
func (b *Builder) JSONLD(v any) {
	raw, err := json.Marshal(v)
	if err != nil || b.once("ld\x00"+string(raw)) {
		return
	}
	b.jsonLD = append(b.jsonLD, string(raw))
}

// once reports whether key was already added, marking it if not.
func (b *Builder) once(key string) bool {
	if b.seen[key] {
		return true
	}
	b.seen[key] = true
	return false
}

/*──────────────────────────── layout output ────────────────────────────────*/

// Metas emits the description tag first, then the rest in insertion order.
func (b *Builder) Metas() template.HTML {
	var sb strings.Builder
	if b.description != "" {
		sb.WriteString(`<meta name="description" content="` + esc(b.description) + `">`)
	}
	for _, m := range b.metas {
		sb.WriteString(m)
	}
	return template.HTML(sb.String())
}

func (b *Builder) Links() template.HTML { return template.HTML(strings.Join(b.links, "")) }

func (b *Builder) JSON() template.HTML {
	var sb strings.Builder
	for _, js := range b.jsonLD {
		sb.WriteString(`<script type="application/ld+json">` + js + `</script>`)
	}
	return template.HTML(sb.String())
}

func esc(s string) string { return template.HTMLEscapeString(s) }
