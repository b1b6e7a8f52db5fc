package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/cache"
)

// Markdown converts text section content to HTML.  Raw HTML in the input
// is dropped (WithUnsafe is not set) and dangerous link schemes are
// filtered by goldmark.  Output is memoised by source text.
type Markdown struct {
	gm   goldmark.Markdown
	memo *cache.LRU[string, template.HTML]
}

// NewMarkdown returns a converter remembering up to size documents.
func NewMarkdown(size int) *Markdown {
	return &Markdown{
		gm: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()),
		),
		memo: cache.New[string, template.HTML](size),
	}
}

// Render returns src as HTML.  On a conversion error the source is shown
// escaped.
func (m *Markdown) Render(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	if out, ok := m.memo.Get(src); ok {
		return out
	}
	var buf bytes.Buffer
	if err := m.gm.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	out := template.HTML(buf.String())
	m.memo.Add(src, out)
	return out
}
