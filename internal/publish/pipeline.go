// Package publish runs one public page request end to end:
//
//	resolve site → availability → gate sequencer → compose → render
//
// Page returns an Outcome the HTTP layer only has to write out.  Nothing
// is composed or rendered unless the visitor has cleared every gate, so
// gated content never reaches a response body.
package publish

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/compose"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/gate"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/head"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/render"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/resolve"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"
)

// Kind is the pipeline result class.
type Kind int

const (
	NotFound Kind = iota
	Expired
	PasswordGate
	LeadGate
	Page
	Error
)

func (k Kind) String() string {
	switch k {
	case Expired:
		return "expired"
	case PasswordGate:
		return "password_gate"
	case LeadGate:
		return "lead_gate"
	case Page:
		return "page"
	case Error:
		return "error"
	default:
		return "not_found"
	}
}

// Sites resolves a request to a site.  *resolve.Resolver satisfies it.
type Sites interface {
	BySlug(ctx context.Context, kind site.Kind, slug string) (*site.Site, error)
	ByDomain(ctx context.Context, domain string) (*site.Site, error)
}

// Content loads what a page is built from.  *site.Store and
// *sitecache.Store satisfy it.
type Content interface {
	Sections(ctx context.Context, siteID uint64) ([]site.Section, error)
	Business(ctx context.Context, s *site.Site) (*site.Business, error)
}

// Request identifies the site by Kind and Slug, or by Domain.
type Request struct {
	Kind   site.Kind
	Slug   string
	Domain string
	Grants grant.Checker
}

// Outcome is everything the HTTP layer writes.  Data is ready for
// view.Renderer.Render(w, Status, Layout, Data).
type Outcome struct {
	Kind   Kind
	Site   *site.Site
	Status int
	Layout string
	Data   view.Data
	Err    error
}

// Deps wires a Pipeline.
type Deps struct {
	Sites      Sites
	Content    Content
	Composer   *compose.Composer
	Dispatcher *render.Dispatcher
	Forms      *form.Set
	Logger     *zap.Logger
	BaseURL    string
}

// Pipeline is safe for concurrent use.
type Pipeline struct {
	sites      Sites
	content    Content
	seq        gate.Sequencer
	composer   *compose.Composer
	dispatcher *render.Dispatcher
	forms      *form.Set
	log        *zap.Logger
	baseURL    string
	now        func() time.Time
}

// New returns a Pipeline over d.
func New(d Deps) *Pipeline {
	if d.Logger == nil {
		d.Logger = zap.L()
	}
	if d.Composer == nil {
		d.Composer = compose.New(d.Logger)
	}
	return &Pipeline{
		sites:      d.Sites,
		content:    d.Content,
		composer:   d.Composer,
		dispatcher: d.Dispatcher,
		forms:      d.Forms,
		log:        d.Logger,
		baseURL:    d.BaseURL,
		now:        time.Now,
	}
}

// Page runs the pipeline for req.
func (p *Pipeline) Page(ctx context.Context, req Request) Outcome {
	out := p.page(ctx, req)
	metrics.PageOutcomes.WithLabelValues(out.Kind.String()).Inc()
	return out
}

func (p *Pipeline) page(ctx context.Context, req Request) Outcome {
	s, err := p.resolve(ctx, req)
	switch {
	case errors.Is(err, resolve.ErrNotFound):
		return notFound()
	case err != nil:
		return p.failure(nil, "resolve site", err)
	}

	now := p.now()
	switch s.Availability(now) {
	case site.Unpublished:
		// Scheduled and draft sites look exactly like missing ones.
		return notFound()
	case site.Expired:
		return expired(s)
	}

	returnTo := s.Path()
	if req.Domain != "" {
		returnTo = "/"
	}

	switch p.seq.Evaluate(s, req.Grants, now) {
	case gate.StageExpired:
		return expired(s)
	case gate.StagePassword:
		return p.gateOutcome(s, gate.StagePassword, returnTo, "", nil)
	case gate.StageLead:
		return p.gateOutcome(s, gate.StageLead, returnTo, "", nil)
	}

	sections, err := p.content.Sections(ctx, s.ID)
	if err != nil {
		return p.failure(s, "load sections", err)
	}
	b, err := p.content.Business(ctx, s)
	switch {
	case errors.Is(err, site.ErrNoBusiness):
		p.log.Warn("publish: business record missing, auto-fill disabled", zap.Uint64("site_id", s.ID))
		b = nil
	case err != nil:
		return p.failure(s, "load business", err)
	}

	page := p.composer.Compose(s, sections, b)
	html := p.dispatcher.RenderPage(page, render.SharedFor(page, p.forms))

	return Outcome{
		Kind: Page, Site: s, Status: http.StatusOK, Layout: view.LayoutPage,
		Data: view.Data{
			Head:     head.ForSite(s, b, p.baseURL),
			Theme:    page.Theme,
			Site:     s,
			Sections: html,
		},
	}
}

// Reprompt renders the gate at stage again for the site in req, with an
// inline error and the visitor's previous input.  A site that is no longer
// available yields the same NotFound or Expired outcome Page would.
func (p *Pipeline) Reprompt(ctx context.Context, req Request, stage gate.Stage, returnTo, errMsg string, prefill map[string]string) Outcome {
	s, err := p.resolve(ctx, req)
	switch {
	case errors.Is(err, resolve.ErrNotFound):
		return notFound()
	case err != nil:
		return p.failure(nil, "resolve site", err)
	}
	switch s.Availability(p.now()) {
	case site.Unpublished:
		return notFound()
	case site.Expired:
		return expired(s)
	}
	return p.gateOutcome(s, stage, returnTo, errMsg, prefill)
}

func (p *Pipeline) gateOutcome(s *site.Site, stage gate.Stage, returnTo, errMsg string, prefill map[string]string) Outcome {
	var (
		kind   = PasswordGate
		layout = view.LayoutPassword
		formID = form.Password
		action = render.EndpointsFor(s.Kind).Password
		title  = "Password required"
	)
	if stage == gate.StageLead {
		kind, layout, formID, title = LeadGate, view.LayoutLead, form.Lead, "Welcome"
		action = render.EndpointsFor(s.Kind).Lead
	}

	f, err := p.forms.Render(formID, form.RenderOptions{
		Action: action,
		Hidden: []form.Hidden{
			{Name: "slug", Value: s.Slug},
			{Name: "return_to", Value: SafeReturn(returnTo, s)},
		},
		Prefill: prefill,
		Error:   errMsg,
	})
	if err != nil {
		return p.failure(s, "render gate form", err)
	}

	return Outcome{
		Kind: kind, Site: s, Status: http.StatusOK, Layout: layout,
		Data: view.Data{
			Head:    head.ForGate(s, title),
			Site:    s,
			Form:    f,
			Message: s.LeadCaptureMessage,
		},
	}
}

func (p *Pipeline) resolve(ctx context.Context, req Request) (*site.Site, error) {
	if req.Domain != "" {
		return p.sites.ByDomain(ctx, req.Domain)
	}
	return p.sites.BySlug(ctx, req.Kind, req.Slug)
}

func (p *Pipeline) failure(s *site.Site, op string, err error) Outcome {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if s != nil {
		fields = append(fields, zap.Uint64("site_id", s.ID))
	}
	p.log.Error("publish: page failed", fields...)
	return Outcome{
		Kind: Error, Site: s, Status: http.StatusInternalServerError, Layout: view.LayoutError,
		Data: view.Data{Head: head.ForGate(nil, "Error")}, Err: err,
	}
}

func expired(s *site.Site) Outcome {
	return Outcome{
		Kind: Expired, Site: s, Status: http.StatusGone, Layout: view.LayoutExpired,
		Data: view.Data{Head: head.ForGate(s, "Site expired"), Site: s},
	}
}

// NotFoundOutcome is the 404 page, for routes that fail before the
// pipeline runs.
func NotFoundOutcome() Outcome { return notFound() }

func notFound() Outcome {
	return Outcome{
		Kind: NotFound, Status: http.StatusNotFound, Layout: view.LayoutNotFound,
		Data: view.Data{Head: head.ForGate(nil, "Not found")},
	}
}

// SafeReturn keeps redirect targets on the same host: a path that starts
// with one slash.  Anything else falls back to the site's own path.
func SafeReturn(target string, s *site.Site) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.ContainsAny(target, "\\\r\n") {
		return target
	}
	return s.Path()
}
