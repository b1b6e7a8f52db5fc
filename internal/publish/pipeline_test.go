package publish

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/form"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/gate"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/metrics"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/render"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/resolve"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/view"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeSites map[string]*site.Site

func (f fakeSites) BySlug(_ context.Context, k site.Kind, slug string) (*site.Site, error) {
	if s, ok := f[string(k)+"/"+slug]; ok {
		return s, nil
	}
	return nil, resolve.ErrNotFound
}

func (f fakeSites) ByDomain(_ context.Context, d string) (*site.Site, error) {
	for _, s := range f {
		if s.CustomDomain == d && s.CustomDomainVerified {
			return s, nil
		}
	}
	return nil, resolve.ErrNotFound
}

type fakeContent struct {
	sections    []site.Section
	business    *site.Business
	sectionErr  error
	businessErr error
	calls       int
}

func (f *fakeContent) Sections(context.Context, uint64) ([]site.Section, error) {
	f.calls++
	return f.sections, f.sectionErr
}

func (f *fakeContent) Business(context.Context, *site.Site) (*site.Business, error) {
	return f.business, f.businessErr
}

type grants map[grant.Kind]bool

func (g grants) Has(_ *site.Site, k grant.Kind) bool { return g[k] }

func newPipeline(t *testing.T, sites fakeSites, content *fakeContent) *Pipeline {
	t.Helper()
	d, err := render.New(zap.NewNop())
	require.NoError(t, err)
	forms, err := form.LoadDefaults(form.NewGuard(""))
	require.NoError(t, err)
	p := New(Deps{
		Sites: sites, Content: content, Dispatcher: d, Forms: forms,
		Logger: zap.NewNop(), BaseURL: "https://sites.example.com",
	})
	p.now = func() time.Time { return now }
	return p
}

func textSection(id uint64, order int, body string) site.Section {
	cfg, _ := json.Marshal(map[string]string{"content": body})
	return site.Section{ID: id, Type: "text", SortOrder: order, IsVisible: true, Config: cfg}
}

func TestPageAvailability(t *testing.T) {
	past, future := now.Add(-time.Hour), now.Add(time.Hour)
	sites := fakeSites{
		"portfolio/draft":     {Kind: site.KindPortfolio, Slug: "draft"},
		"portfolio/later":     {Kind: site.KindPortfolio, Slug: "later", IsPublished: true, ScheduledPublishAt: &future},
		"portfolio/gone":      {Kind: site.KindPortfolio, Slug: "gone", IsPublished: true, ExpiresAt: &past},
		"portfolio/goneDraft": {Kind: site.KindPortfolio, Slug: "goneDraft", ExpiresAt: &past},
	}
	p := newPipeline(t, sites, &fakeContent{})

	cases := []struct {
		slug   string
		kind   Kind
		status int
	}{
		{"missing", NotFound, http.StatusNotFound},
		{"draft", NotFound, http.StatusNotFound},
		{"later", NotFound, http.StatusNotFound},
		{"gone", Expired, http.StatusGone},
		{"goneDraft", NotFound, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.slug, func(t *testing.T) {
			out := p.Page(context.Background(), Request{Kind: site.KindPortfolio, Slug: tc.slug})
			assert.Equal(t, tc.kind, out.Kind)
			assert.Equal(t, tc.status, out.Status)
			assert.Empty(t, out.Data.Sections)
		})
	}
}

func TestExpiryBeatsPasswordGate(t *testing.T) {
	past := now.Add(-time.Minute)
	s := &site.Site{Kind: site.KindPortfolio, Slug: "old", IsPublished: true, ExpiresAt: &past, IsPasswordProtected: true}
	content := &fakeContent{}
	out := newPipeline(t, fakeSites{"portfolio/old": s}, content).
		Page(context.Background(), Request{Kind: site.KindPortfolio, Slug: "old"})

	assert.Equal(t, Expired, out.Kind)
	assert.Equal(t, view.LayoutExpired, out.Layout)
	assert.Zero(t, content.calls)
}

func TestGatesHideContent(t *testing.T) {
	s := &site.Site{
		Kind: site.KindProperty, Slug: "123-main-st", Name: "123 Main St", IsPublished: true,
		IsPasswordProtected: true, RequireLeadCapture: true, LeadCaptureMessage: "Register for details",
	}
	content := &fakeContent{sections: []site.Section{textSection(1, 0, "secret listing notes")}}
	p := newPipeline(t, fakeSites{"property/123-main-st": s}, content)
	req := Request{Kind: site.KindProperty, Slug: "123-main-st"}

	out := p.Page(context.Background(), req)
	require.Equal(t, PasswordGate, out.Kind)
	assert.Equal(t, view.LayoutPassword, out.Layout)
	assert.Contains(t, string(out.Data.Form), `action="/api/property/password"`)
	assert.Contains(t, string(out.Data.Form), `name="slug" value="123-main-st"`)
	assert.Contains(t, string(out.Data.Form), `name="return_to" value="/property/123-main-st"`)
	assert.Contains(t, string(out.Data.Head.Metas()), "noindex")

	// A lead grant alone does not skip the password gate.
	req.Grants = grants{grant.Lead: true}
	assert.Equal(t, PasswordGate, p.Page(context.Background(), req).Kind)

	req.Grants = grants{grant.Access: true}
	out = p.Page(context.Background(), req)
	require.Equal(t, LeadGate, out.Kind)
	assert.Contains(t, string(out.Data.Form), `action="/api/property/lead"`)
	assert.Equal(t, "Register for details", out.Data.Message)

	assert.Zero(t, content.calls, "gated requests must not load sections")

	req.Grants = grants{grant.Access: true, grant.Lead: true}
	out = p.Page(context.Background(), req)
	require.Equal(t, Page, out.Kind)
	require.Len(t, out.Data.Sections, 1)
	assert.Contains(t, string(out.Data.Sections[0]), "secret listing notes")
}

func TestPageComposesAndRenders(t *testing.T) {
	s := &site.Site{Kind: site.KindPortfolio, Slug: "jane", Name: "Jane Doe Photo", IsPublished: true, PrimaryColor: "#112233"}
	hidden := textSection(3, 0, "hidden")
	hidden.IsVisible = false
	content := &fakeContent{
		sections: []site.Section{textSection(1, 2, "second"), textSection(2, 1, "first"), hidden,
			{ID: 4, Type: "carousel", SortOrder: 3, IsVisible: true}},
		business: &site.Business{Organization: &site.Organization{Name: "Jane Doe Photo"}},
	}
	before := testutil.ToFloat64(metrics.PageOutcomes.WithLabelValues("page"))

	out := newPipeline(t, fakeSites{"portfolio/jane": s}, content).
		Page(context.Background(), Request{Kind: site.KindPortfolio, Slug: "jane"})

	require.Equal(t, Page, out.Kind)
	assert.Equal(t, http.StatusOK, out.Status)
	require.Len(t, out.Data.Sections, 3)
	assert.Contains(t, string(out.Data.Sections[0]), "first")
	assert.Contains(t, string(out.Data.Sections[1]), "second")
	assert.Contains(t, string(out.Data.Sections[2]), "section--placeholder")
	assert.Equal(t, "#112233", out.Data.Theme.PrimaryColor)
	assert.Contains(t, string(out.Data.Head.Links()), "https://sites.example.com/portfolio/jane")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PageOutcomes.WithLabelValues("page")))
}

func TestPageByDomainReturnsToRoot(t *testing.T) {
	s := &site.Site{Kind: site.KindPortfolio, Slug: "jane", IsPublished: true, IsPasswordProtected: true,
		CustomDomain: "janedoe.photo", CustomDomainVerified: true}
	out := newPipeline(t, fakeSites{"portfolio/jane": s}, &fakeContent{}).
		Page(context.Background(), Request{Domain: "janedoe.photo"})

	require.Equal(t, PasswordGate, out.Kind)
	assert.Contains(t, string(out.Data.Form), `name="return_to" value="/"`)
}

func TestMissingBusinessStillRenders(t *testing.T) {
	s := &site.Site{Kind: site.KindProperty, Slug: "lot-9", IsPublished: true}
	content := &fakeContent{
		sections:    []site.Section{{ID: 1, Type: "details", IsVisible: true}},
		businessErr: site.ErrNoBusiness,
	}
	out := newPipeline(t, fakeSites{"property/lot-9": s}, content).
		Page(context.Background(), Request{Kind: site.KindProperty, Slug: "lot-9"})
	assert.Equal(t, Page, out.Kind)
}

func TestLoadFailuresAreErrors(t *testing.T) {
	s := &site.Site{Kind: site.KindPortfolio, Slug: "jane", IsPublished: true}
	boom := errors.New("db down")

	for name, content := range map[string]*fakeContent{
		"sections": {sectionErr: boom},
		"business": {businessErr: boom},
	} {
		t.Run(name, func(t *testing.T) {
			out := newPipeline(t, fakeSites{"portfolio/jane": s}, content).
				Page(context.Background(), Request{Kind: site.KindPortfolio, Slug: "jane"})
			assert.Equal(t, Error, out.Kind)
			assert.Equal(t, http.StatusInternalServerError, out.Status)
			assert.ErrorIs(t, out.Err, boom)
			assert.Empty(t, out.Data.Sections)
		})
	}
}

func TestRepromptWithError(t *testing.T) {
	s := &site.Site{Kind: site.KindProperty, Slug: "123-main-st", IsPublished: true, RequireLeadCapture: true}
	p := newPipeline(t, fakeSites{"property/123-main-st": s}, &fakeContent{})
	req := Request{Kind: site.KindProperty, Slug: "123-main-st"}

	out := p.Reprompt(context.Background(), req, gate.StageLead, "//evil.example", gate.MsgInvalidEmail,
		map[string]string{"name": "Ann"})
	f := string(out.Data.Form)
	assert.Equal(t, LeadGate, out.Kind)
	assert.Contains(t, f, gate.MsgInvalidEmail)
	assert.Contains(t, f, `value="Ann"`)
	assert.Contains(t, f, `name="return_to" value="/property/123-main-st"`)

	req.Slug = "gone"
	assert.Equal(t, NotFound, p.Reprompt(context.Background(), req, gate.StageLead, "/", "", nil).Kind)
}

func TestSafeReturn(t *testing.T) {
	s := &site.Site{Kind: site.KindPortfolio, Slug: "jane"}
	for in, want := range map[string]string{
		"/":                  "/",
		"/portfolio/jane":    "/portfolio/jane",
		"//evil.example/":    "/portfolio/jane",
		"https://evil.test/": "/portfolio/jane",
		"/\\evil":            "/portfolio/jane",
		"":                   "/portfolio/jane",
	} {
		assert.Equal(t, want, SafeReturn(in, s), in)
	}
	assert.False(t, strings.HasPrefix(SafeReturn("//x", s), "//"))
}
