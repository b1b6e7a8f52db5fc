package theme

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

func TestResolve(t *testing.T) {
	v := Resolve(&site.Site{Template: "Classic", PrimaryColor: "#ABCDEF", FontFamily: "Lora"})
	assert.Equal(t, "classic", v.Preset)
	assert.Equal(t, "#ABCDEF", v.PrimaryColor)
	assert.Equal(t, "Lora", v.FontFamily)
	assert.Equal(t, "Playfair Display", v.HeadingFont)
	assert.Equal(t, "4px", v.BorderRadius)
}

func TestResolveFallsBackAndRejectsUnsafeOverrides(t *testing.T) {
	v := Resolve(&site.Site{
		Template:     "neon",
		PrimaryColor: "red;background:url(x)",
		FontFamily:   "Inter';}",
	})
	assert.Equal(t, DefaultPreset, v.Preset)
	assert.Equal(t, "#3b82f6", v.PrimaryColor)
	assert.Equal(t, "Inter", v.FontFamily)
}

func TestCSS(t *testing.T) {
	css := string(Resolve(&site.Site{}).CSS())
	assert.Contains(t, css, "--color-primary:#3b82f6")
	assert.Contains(t, css, "--radius:12px")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$450,000", Money(45_000_000))
	assert.Equal(t, "$1,234,568", Money(123_456_750))
	assert.Equal(t, "$0", Money(0))
	assert.Equal(t, "-$12", Money(-1200))
	assert.Equal(t, "1,850", Number(1850))
	assert.Equal(t, "999", Number(999))
	assert.Equal(t, "2.5", Decimal(2.5))
	assert.Equal(t, "3", Decimal(3))
}

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/a.html":        {Data: []byte(`{{ define "a" }}A{{ template "b" . }}{{ end }}`)},
		"tpl/nested/b.html": {Data: []byte(`{{ define "b" }}{{ money . }}{{ end }}`)},
		"tpl/readme.txt":    {Data: []byte(`ignored`)},
	}
	files, err := templateFiles(fsys, "tpl")
	require.NoError(t, err)
	assert.Equal(t, []string{"tpl/a.html", "tpl/nested/b.html"}, files)

	tpl, err := Load(fsys, "tpl", nil)
	require.NoError(t, err)
	require.NotNil(t, tpl.Lookup("a"))
	require.NotNil(t, tpl.Lookup("b"))

	_, err = Load(fsys, "missing", nil)
	require.Error(t, err)
}
