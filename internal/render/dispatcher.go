// Package render turns composed nodes into HTML, one html/template per
// section type.
//
// The Dispatcher switches exhaustively over the closed config variant set.
// Each case picks a template and the few derived values that template
// needs (Markdown HTML, an embed URL, a pre-rendered form).  Nothing here
// reads the database or the site theme fields; everything arrives in the
// Node or the Shared context.
//
// Failure modes are local: a placeholder node, a template error, or a form
// that cannot be rendered yields the neutral placeholder markup for that
// section only.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/compose"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/section"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/theme"
)

//go:embed templates
var templates embed.FS

// Endpoints are the submission URLs forms post to.
type Endpoints struct {
	Password string
	Lead     string
	Contact  string
}

// EndpointsFor returns the API routes for kind.
func EndpointsFor(kind site.Kind) Endpoints {
	base := "/api/" + string(kind)
	return Endpoints{
		Password: base + "/password",
		Lead:     base + "/lead",
		Contact:  base + "/contact",
	}
}

// Shared is the read-only context every section of one page sees.
type Shared struct {
	Site      *site.Site
	Theme     theme.Vars
	Endpoints Endpoints
	Forms     *form.Set
}

// SharedFor builds the Shared context for a composed page.
func SharedFor(p compose.Page, forms *form.Set) Shared {
	return Shared{
		Site:      p.Site,
		Theme:     p.Theme,
		Endpoints: EndpointsFor(p.Site.Kind),
		Forms:     forms,
	}
}

// Dispatcher renders nodes.  Safe for concurrent use.
type Dispatcher struct {
	tpl *template.Template
	md  *Markdown
	log *zap.Logger
}

// New parses the embedded section templates.
func New(log *zap.Logger) (*Dispatcher, error) {
	if log == nil {
		log = zap.L()
	}
	md := NewMarkdown(512)
	tpl, err := theme.Load(templates, "templates", template.FuncMap{
		"markdown":  md.Render,
		"stars":     stars,
		"mapSearch": MapSearchURL,
		"tel":       telURL,
	})
	if err != nil {
		return nil, err
	}
	return &Dispatcher{tpl: tpl, md: md, log: log}, nil
}

// view is the data every section template receives.
type view struct {
	ID      uint64
	Type    section.Type
	Heading string
	C       section.Config
	S       Shared

	HTML    template.HTML // Markdown output or a pre-rendered form
	Embed   string        // iframe src
	MapURL  string
	Down    int64
	Monthly int64
}

// Render returns the markup for n.  ok is false when the section has
// nothing to show and must be omitted entirely.
func (d *Dispatcher) Render(n compose.Node, sh Shared) (out template.HTML, ok bool) {
	if n.Placeholder || n.Config == nil {
		return Placeholder(n.ID), true
	}
	if !n.Config.Displayable() {
		return "", false
	}

	v := view{ID: n.ID, Type: n.Type, C: n.Config, S: sh}
	var (
		name    string
		heading string
		err     error
	)

	switch c := n.Config.(type) {
	case *section.HeroConfig:
		name, heading = "hero", c.Title
	case *section.AboutConfig:
		name, heading = "about", c.Title
		v.HTML = d.md.Render(c.Content)
	case *section.GalleryConfig:
		name, heading = "gallery", c.Title
	case *section.ServicesConfig:
		name, heading = "services", c.Title
	case *section.TestimonialsConfig:
		name, heading = "testimonials", c.Title
	case *section.ContactConfig:
		name, heading = "contact", c.Title
		if c.ShowForm {
			v.HTML, err = contactForm(sh, n.ID, form.Contact, site.LeadSourceContact, c.ButtonText, nil)
		}
	case *section.FAQConfig:
		name, heading = "faq", c.Title
	case *section.TextConfig:
		name = "text"
		v.HTML = d.md.Render(c.Content)
	case *section.ImageConfig:
		name = "image"
	case *section.VideoConfig:
		name, heading = "video", c.Title
		v.Embed = VideoEmbedURL(c.URL, c.Autoplay)
	case *section.SpacerConfig:
		name = "spacer"
	case *section.PricingConfig:
		name, heading = "pricing", c.Title
	case *section.StatsConfig:
		name, heading = "stats", c.Title
	case *section.ProcessConfig:
		name, heading = "process", c.Title
	case *section.CTAConfig:
		name, heading = "cta", c.Title
	case *section.DetailsConfig:
		name, heading = "details", c.Title
	case *section.DescriptionConfig:
		name, heading = "description", c.Title
		v.HTML = d.md.Render(c.Content)
	case *section.FeaturesConfig:
		name, heading = "features", c.Title
	case *section.VirtualTourConfig:
		name, heading = "virtual_tour", c.Title
		v.Embed = TourEmbedURL(c.URL)
	case *section.LocationMapConfig:
		name, heading = "location_map", c.Title
		v.MapURL = MapEmbedURL(c.Latitude, c.Longitude, c.Zoom)
	case *section.AgentInfoConfig:
		name, heading = "agent_info", c.Heading
	case *section.InquiryFormConfig:
		name, heading = "inquiry_form", c.Title
		omit := map[string]bool{"phone": !c.ShowPhone, "message": !c.ShowMessage}
		v.HTML, err = contactForm(sh, n.ID, form.Inquiry, site.LeadSourceInquiry, c.ButtonText, omit)
	case *section.MortgageCalculatorConfig:
		name, heading = "mortgage_calculator", c.Title
		v.Down, v.Monthly = c.DownPaymentCents(), c.MonthlyPaymentCents()
	case *section.NeighborhoodConfig:
		name, heading = "neighborhood", c.Title
		v.HTML = d.md.Render(c.Description)
	case *section.WalkScoreConfig:
		name, heading = "walk_score", c.Title
	default:
		d.fail(n, fmt.Errorf("no renderer for %T", c))
		return Placeholder(n.ID), true
	}
	if err != nil {
		d.fail(n, err)
		return Placeholder(n.ID), true
	}

	v.Heading = heading
	if n.Title != "" {
		v.Heading = n.Title
	}

	var inner bytes.Buffer
	if err := d.tpl.ExecuteTemplate(&inner, name, v); err != nil {
		d.fail(n, err)
		return Placeholder(n.ID), true
	}

	var outer bytes.Buffer
	wrap := struct {
		ID    uint64
		Type  section.Type
		Style template.CSS
		Inner template.HTML
	}{n.ID, n.Type, nodeStyle(n), template.HTML(inner.String())}
	if err := d.tpl.ExecuteTemplate(&outer, "section", wrap); err != nil {
		d.fail(n, err)
		return Placeholder(n.ID), true
	}
	return template.HTML(outer.String()), true
}

// RenderPage renders every node of p in order, dropping hidden ones.
func (d *Dispatcher) RenderPage(p compose.Page, sh Shared) []template.HTML {
	out := make([]template.HTML, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if h, ok := d.Render(n, sh); ok {
			out = append(out, h)
		}
	}
	return out
}

func (d *Dispatcher) fail(n compose.Node, err error) {
	d.log.Error("render: section failed, using placeholder",
		zap.Uint64("section_id", n.ID),
		zap.String("section_type", string(n.Type)),
		zap.Error(err))
	metrics.SectionPlaceholders.WithLabelValues(string(n.Type)).Inc()
}

// Placeholder is the neutral markup for a section that cannot render.  It
// keeps the slot in the layout and reveals nothing about the cause.
func Placeholder(id uint64) template.HTML {
	return template.HTML(`<section class="section section--placeholder" data-section-id="` +
		strconv.FormatUint(id, 10) + `" aria-hidden="true"></section>`)
}

func contactForm(sh Shared, id uint64, formID, source, button string, omit map[string]bool) (template.HTML, error) {
	if sh.Forms == nil || sh.Site == nil {
		return "", fmt.Errorf("form %s: no form set in context", formID)
	}
	return sh.Forms.Render(formID, form.RenderOptions{
		Action: sh.Endpoints.Contact,
		Hidden: []form.Hidden{
			{Name: "slug", Value: sh.Site.Slug},
			{Name: "sectionId", Value: strconv.FormatUint(id, 10)},
			{Name: "source", Value: source},
		},
		Omit:   omit,
		Submit: button,
	})
}

func nodeStyle(n compose.Node) template.CSS {
	var parts []string
	if n.BackgroundColor != "" {
		parts = append(parts, "background-color:"+n.BackgroundColor)
	}
	if n.PaddingTop != nil && *n.PaddingTop >= 0 {
		parts = append(parts, "padding-top:"+strconv.Itoa(*n.PaddingTop)+"px")
	}
	if n.PaddingBottom != nil && *n.PaddingBottom >= 0 {
		parts = append(parts, "padding-bottom:"+strconv.Itoa(*n.PaddingBottom)+"px")
	}
	return template.CSS(strings.Join(parts, ";"))
}

// telURL builds a tel: link from the dialable characters of phone.
// html/template only trusts http, https, and mailto on its own.
func telURL(phone string) template.URL {
	var b strings.Builder
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return template.URL("tel:" + b.String())
}

// stars renders a 0..5 rating as filled and empty stars.
func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
