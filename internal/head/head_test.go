package head

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

func TestBuilderEscapesAndDedupes(t *testing.T) {
	h := New()
	h.SetTitle(`Tom & Jerry <Studio>`)
	h.Name("robots", "noindex")
	h.Name("robots", "noindex")
	h.Property("og:title", `"quoted"`)
	h.Link("canonical", "https://example.com/a?b=1&c=2")

	assert.Equal(t, "<title>Tom &amp; Jerry &lt;Studio&gt;</title>", string(h.Title()))
	assert.Equal(t, 1, strings.Count(string(h.Metas()), "robots"))
	assert.Contains(t, string(h.Metas()), `content="&#34;quoted&#34;"`)
	assert.Contains(t, string(h.Links()), `href="https://example.com/a?b=1&amp;c=2"`)
}

func TestJSONLDCannotBreakOutOfScript(t *testing.T) {
	h := New()
	h.JSONLD(map[string]string{"name": "</script><script>alert(1)</script>"})
	out := string(h.JSON())
	assert.Equal(t, 1, strings.Count(out, "</script>"))
	assert.Contains(t, out, `</script>`)
}

func TestForSiteProperty(t *testing.T) {
	lat, lng := 39.78, -89.65
	s := &site.Site{Kind: site.KindProperty, Slug: "123-main-st"}
	b := &site.Business{
		Organization: &site.Organization{Name: "Jane Doe Photo"},
		Property: &site.Property{
			Address: "123 Main St", City: "Springfield", State: "IL", PostalCode: "62701",
			PriceCents: 45_000_000, Beds: 3, SquareFeet: 2150,
			Description: strings.Repeat("Lovely home. ", 30),
			Latitude:    &lat, Longitude: &lng,
			Photos: site.PhotoList{{URL: "https://cdn.example.com/1.jpg"}},
		},
	}
	h := ForSite(s, b, "https://sites.example.com/")

	assert.Equal(t, "123 Main St, Springfield, IL 62701", h.TitleText())
	metas := string(h.Metas())
	assert.Contains(t, metas, `property="og:type" content="place"`)
	assert.Contains(t, metas, `property="og:image" content="https://cdn.example.com/1.jpg"`)
	assert.Contains(t, metas, `property="og:url" content="https://sites.example.com/property/123-main-st"`)
	assert.LessOrEqual(t, len([]rune(h.description)), 160)

	require.Len(t, h.jsonLD, 1)
	var ld map[string]any
	require.NoError(t, json.Unmarshal([]byte(h.jsonLD[0]), &ld))
	assert.Equal(t, "RealEstateListing", ld["@type"])
	assert.Equal(t, float64(450000), ld["offers"].(map[string]any)["price"])
}

func TestForSitePortfolioAndCustomDomain(t *testing.T) {
	s := &site.Site{
		Kind: site.KindPortfolio, Slug: "jane", Name: "Weddings",
		CustomDomain: "janedoe.photo", CustomDomainVerified: true,
	}
	b := &site.Business{Organization: &site.Organization{Name: "Jane Doe Photo", Email: "jane@example.com"}}
	h := ForSite(s, b, "")

	assert.Equal(t, "Weddings | Jane Doe Photo", h.TitleText())
	assert.Contains(t, string(h.Links()), `href="https://janedoe.photo/"`)
	assert.Contains(t, string(h.JSON()), "ProfessionalService")
}

func TestForGate(t *testing.T) {
	h := ForGate(&site.Site{Name: "Smith Wedding"}, "Password required")
	assert.Equal(t, "Password required | Smith Wedding", h.TitleText())
	assert.Contains(t, string(h.Metas()), "noindex, nofollow")
}
