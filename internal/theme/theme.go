// Package theme resolves the visual variables shared by every section of
// one page.  A site picks a template preset (modern, classic, minimal,
// bold, or elegant) and may override the primary color and the body font;
// Resolve folds those into one Vars value that the composer attaches to
// the page.  Sections never read site theme fields themselves.
//
// The package also hosts the template plumbing shared by internal/render
// and internal/view: Load and FuncMap.
package theme

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// DefaultPreset is used when a site's template is blank or unknown.
const DefaultPreset = "modern"

// Vars is the resolved theme for one page.
type Vars struct {
	Preset          string
	PrimaryColor    string
	SecondaryColor  string
	BackgroundColor string
	TextColor       string
	FontFamily      string
	HeadingFont     string
	BorderRadius    string
}

var presets = map[string]Vars{
	"modern": {
		PrimaryColor: "#3b82f6", SecondaryColor: "#1e293b", BackgroundColor: "#ffffff",
		TextColor: "#0f172a", FontFamily: "Inter", HeadingFont: "Inter", BorderRadius: "12px",
	},
	"classic": {
		PrimaryColor: "#8b5a2b", SecondaryColor: "#3f3f46", BackgroundColor: "#fdfbf7",
		TextColor: "#27272a", FontFamily: "Georgia", HeadingFont: "Playfair Display", BorderRadius: "4px",
	},
	"minimal": {
		PrimaryColor: "#111111", SecondaryColor: "#6b7280", BackgroundColor: "#ffffff",
		TextColor: "#111111", FontFamily: "Helvetica Neue", HeadingFont: "Helvetica Neue", BorderRadius: "0px",
	},
	"bold": {
		PrimaryColor: "#ef4444", SecondaryColor: "#111827", BackgroundColor: "#0b0b0f",
		TextColor: "#f9fafb", FontFamily: "Montserrat", HeadingFont: "Bebas Neue", BorderRadius: "16px",
	},
	"elegant": {
		PrimaryColor: "#b08d57", SecondaryColor: "#1c1917", BackgroundColor: "#faf7f2",
		TextColor: "#1c1917", FontFamily: "Lato", HeadingFont: "Cormorant Garamond", BorderRadius: "2px",
	},
}

var (
	hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	fontName = regexp.MustCompile(`^[A-Za-z0-9 \-]{1,64}$`)
)

// Presets lists the known preset names.
func Presets() []string {
	return []string{"modern", "classic", "minimal", "bold", "elegant"}
}

// Resolve returns the theme for s.  Overrides that are not a plain hex
// color or a plain font name are ignored so they cannot break out of the
// style attribute they end up in.
func Resolve(s *site.Site) Vars {
	name := strings.ToLower(strings.TrimSpace(s.Template))
	v, ok := presets[name]
	if !ok {
		name = DefaultPreset
		v = presets[name]
	}
	v.Preset = name

	if IsColor(s.PrimaryColor) {
		v.PrimaryColor = s.PrimaryColor
	}
	if f := strings.TrimSpace(s.FontFamily); fontName.MatchString(f) {
		v.FontFamily = f
	}
	return v
}

// CSS renders the variables as custom properties for a style attribute.
func (v Vars) CSS() template.CSS {
	return template.CSS(fmt.Sprintf(
		"--color-primary:%s;--color-secondary:%s;--color-bg:%s;--color-text:%s;"+
			"--font-body:'%s',sans-serif;--font-heading:'%s',serif;--radius:%s",
		v.PrimaryColor, v.SecondaryColor, v.BackgroundColor, v.TextColor,
		v.FontFamily, v.HeadingFont, v.BorderRadius))
}

// IsColor reports whether s is a #rgb or #rrggbb color.
func IsColor(s string) bool { return hexColor.MatchString(s) }
