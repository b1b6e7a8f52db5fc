// components/website/website.go
//
// Public site pages.
//
// Routes
// ------
//
//	GET /portfolio/{slug}       portfolio site by slug
//	GET /property/{slug}        property site by slug
//	GET /_domain/{domain}/*     any site by verified custom domain
//
// The last route is never linked; routing.DomainRewrite lands custom-domain
// requests there.  Every route runs publish.Pipeline and writes the
// outcome, so a gated site answers with its gate page and a missing one
// with 404.
//
//------------------------------------------------------------------------------

package website

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/component"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/publish"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component serves rendered site pages.
type Component struct {
	pipeline *publish.Pipeline
	grants   *grant.Issuer
	views    *view.Renderer
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "website" }

// Init keeps the pipeline, grant reader, and layouts.
func (c *Component) Init(d component.Deps) error {
	c.pipeline, c.grants, c.views = d.Pipeline, d.Grants, d.Views
	return nil
}

// Routes builds the page routes.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/portfolio/{slug}", c.bySlug(site.KindPortfolio))
	r.Get("/property/{slug}", c.bySlug(site.KindProperty))
	r.Get("/_domain/{domain}/*", c.byDomain)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

func (c *Component) bySlug(kind site.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.serve(w, r, publish.Request{Kind: kind, Slug: chi.URLParam(r, "slug")})
	}
}

// byDomain serves the site's page at the domain root.  Sites are single
// pages, so deeper paths are 404.
func (c *Component) byDomain(w http.ResponseWriter, r *http.Request) {
	if rest := chi.URLParam(r, "*"); rest != "" {
		component.Respond(c.views, w, r, publish.NotFoundOutcome())
		return
	}
	c.serve(w, r, publish.Request{Domain: chi.URLParam(r, "domain")})
}

func (c *Component) serve(w http.ResponseWriter, r *http.Request, req publish.Request) {
	req.Grants = c.grants.ForRequest(r)
	component.Respond(c.views, w, r, c.pipeline.Page(r.Context(), req))
}
