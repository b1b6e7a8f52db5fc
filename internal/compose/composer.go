// Package compose turns a site's stored sections into the ordered list of
// nodes a page renders.
//
// Compose is a pure function of its inputs.  It performs no I/O; the
// business record is loaded by the caller and passed in, so one page
// request costs exactly one composition and the result can be tested
// without a database.
package compose

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/section"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/theme"
)

// Node is one renderable section.  When Placeholder is set Config is nil
// and StoredType carries whatever section_type the row had.
type Node struct {
	ID          uint64
	Type        section.Type
	StoredType  string
	Config      section.Config
	Placeholder bool

	Title           string
	BackgroundColor string
	PaddingTop      *int
	PaddingBottom   *int
}

// Page is the composed result: theme variables and nodes in display
// order.
type Page struct {
	Site     *site.Site
	Business *site.Business
	Theme    theme.Vars
	Nodes    []Node
}

// Composer builds Pages.  The zero value logs to the global logger.
type Composer struct {
	Log *zap.Logger
}

// New returns a Composer that logs placeholder decisions to log.
func New(log *zap.Logger) *Composer { return &Composer{Log: log} }

// Compose applies, in order: visibility filter, stable sort by sort
// order, defaults merge, auto-fill overlay, placeholder substitution, and
// the empty-content filter.  sections is not modified.
func (c *Composer) Compose(s *site.Site, sections []site.Section, b *site.Business) Page {
	log := c.Log
	if log == nil {
		log = zap.L()
	}

	visible := make([]site.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.IsVisible {
			visible = append(visible, sec)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].SortOrder < visible[j].SortOrder
	})

	page := Page{
		Site:     s,
		Business: b,
		Theme:    theme.Resolve(s),
		Nodes:    make([]Node, 0, len(visible)),
	}

	for i := range visible {
		sec := &visible[i]
		n := Node{
			ID:         sec.ID,
			Type:       section.Type(sec.Type),
			StoredType: sec.Type,
			Title:      sec.CustomTitle,
			PaddingTop: sec.PaddingTop, PaddingBottom: sec.PaddingBottom,
		}
		if theme.IsColor(sec.BackgroundColor) {
			n.BackgroundColor = sec.BackgroundColor
		}

		cfg, err := effective(sec)
		if err != nil {
			log.Warn("compose: section rendered as placeholder",
				zap.Uint64("site_id", s.ID),
				zap.Uint64("section_id", sec.ID),
				zap.String("section_type", sec.Type),
				zap.Error(err))
			metrics.SectionPlaceholders.WithLabelValues(placeholderLabel(err, sec.Type)).Inc()
			n.Placeholder = true
			page.Nodes = append(page.Nodes, n)
			continue
		}

		cfg = section.Overlay(cfg, b)
		if !cfg.Displayable() {
			continue
		}
		n.Config = cfg
		page.Nodes = append(page.Nodes, n)
	}
	return page
}

func effective(sec *site.Section) (section.Config, error) {
	stored, err := sec.ConfigMap()
	if err != nil {
		return nil, errors.Join(section.ErrBadConfig, err)
	}
	return section.Effective(section.Type(sec.Type), stored)
}

// placeholderLabel keeps metric cardinality bounded: arbitrary stored
// type strings collapse to "unknown".
func placeholderLabel(err error, stored string) string {
	if errors.Is(err, section.ErrUnknownType) {
		return "unknown"
	}
	return stored
}
