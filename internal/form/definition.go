// internal/form/definition.go
//
// YAML definitions for the forms public sites post.
//
// Context
//   The password gate, the lead gate, and the contact and inquiry sections
//   each post one small form.  Their fields live in YAML so copy and limits
//   change without touching handlers.  The defaults ship embedded under
//   defs/; an operator directory may override any of them by id.
//
// Workflow
//   •  Structs mirror the YAML schema: Def → FieldDef.
//   •  parseDef decodes one file and checks structural rules.
//   •  Load walks one or more filesystems in precedence order and builds
//      an immutable Set.
//   •  Set.Def offers read-only access by id.
//
//------------------------------------------------------------------------------

package form

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults holds the built-in form definitions.
//
//go:embed defs/*.yaml
var Defaults embed.FS

// Well-known form ids.
const (
	Password = "password"
	Lead     = "lead"
	Contact  = "contact"
	Inquiry  = "inquiry"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// Def is one form.  MinSeconds is the shortest plausible time between
// render and submit; zero disables the too-fast check (password managers
// fill the password gate instantly).
type Def struct {
	ID         string     `yaml:"id"`
	Title      string     `yaml:"title"`
	Submit     string     `yaml:"submit"`
	MinSeconds int        `yaml:"min_seconds"`
	Fields     []FieldDef `yaml:"fields"`
}

// FieldDef describes one input.  Validation metadata lives inline so the
// server enforces the same rules the browser hints at.
type FieldDef struct {
	Name        string `yaml:"name"`
	Label       string `yaml:"label"`
	Type        string `yaml:"type"` // text, email, tel, password, textarea
	Placeholder string `yaml:"placeholder"`
	Required    bool   `yaml:"required"`
	MaxLength   int    `yaml:"maxlength"`
	Pattern     string `yaml:"pattern"`
	ErrorMsg    string `yaml:"error"`

	re *regexp.Regexp
}

var fieldTypes = map[string]bool{
	"text": true, "email": true, "tel": true, "password": true, "textarea": true,
}

// Set is an immutable collection of parsed definitions.
type Set struct {
	defs  map[string]*Def
	guard *Guard
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// Load parses every *.yaml under dir in each filesystem.  Later
// filesystems override earlier ones by id, so pass the embedded defaults
// first and any operator overrides after.
func Load(guard *Guard, dir string, sources ...fs.FS) (*Set, error) {
	if len(sources) == 0 {
		return nil, errors.New("form: no definition sources")
	}
	s := &Set{defs: make(map[string]*Def), guard: guard}

	for _, fsys := range sources {
		err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
				return nil
			}
			raw, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("read form file %s: %w", p, err)
			}
			def, err := parseDef(raw, p)
			if err != nil {
				return err
			}
			s.defs[def.ID] = def
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return s, nil
}

// LoadDefaults is Load over the embedded definitions only.
func LoadDefaults(guard *Guard) (*Set, error) {
	return Load(guard, "defs", Defaults)
}

// Def returns the definition for id.
func (s *Set) Def(id string) (*Def, bool) {
	d, ok := s.defs[id]
	return d, ok
}

// Guard exposes the token guard the set renders and verifies with.
func (s *Set) Guard() *Guard { return s.guard }

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

func parseDef(raw []byte, file string) (*Def, error) {
	var d Def
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", file, err)
	}
	if d.ID == "" {
		d.ID = strings.TrimSuffix(path.Base(file), ".yaml")
	}
	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("form definition %s: no fields", file)
	}
	if d.MinSeconds < 0 {
		return nil, fmt.Errorf("form definition %s: min_seconds cannot be negative", file)
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if err := validateField(f, file); err != nil {
			return nil, err
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("form %s: duplicate field name '%s'", file, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return &d, nil
}

func validateField(f *FieldDef, file string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", file)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", file, f.Name)
	}
	if !fieldTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", file, f.Name, f.Type)
	}
	if f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' maxlength cannot be negative", file, f.Name)
	}
	if f.Pattern != "" {
		re, err := regexp.Compile(f.Pattern)
		if err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", file, f.Name, err)
		}
		f.re = re
	}
	return nil
}
