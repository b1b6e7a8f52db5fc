package theme

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
)

// templateFiles lists every .html file below dir, in walk order.
func templateFiles(fsys fs.FS, dir string) ([]string, error) {
	var out []string
	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir():
			return nil
		case strings.EqualFold(path.Ext(p), ".html"):
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

// Load parses the section or layout templates under dir into one set.
// FuncMap is always installed; extra adds to or overrides it.  Templates
// reference each other by their {{ define }} names, not by file.
func Load(fsys fs.FS, dir string, extra template.FuncMap) (*template.Template, error) {
	files, err := templateFiles(fsys, dir)
	switch {
	case err != nil:
		return nil, fmt.Errorf("theme: walk %s: %w", dir, err)
	case len(files) == 0:
		return nil, fmt.Errorf("theme: no templates under %s", dir)
	}

	funcs := FuncMap()
	for name, fn := range extra {
		funcs[name] = fn
	}
	set, err := template.New(path.Base(dir)).Funcs(funcs).ParseFS(fsys, files...)
	if err != nil {
		return nil, fmt.Errorf("theme: parse %s: %w", dir, err)
	}
	return set, nil
}
