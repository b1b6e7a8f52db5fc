package head

import (
	"strings"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// ForSite fills a Builder for a rendered site page: title, description,
// canonical URL, Open Graph tags, and structured data.  Property sites get
// a schema.org RealEstateListing; portfolios a ProfessionalService.
// baseURL may be empty, in which case canonical and og:url are omitted.
func ForSite(s *site.Site, b *site.Business, baseURL string) *Builder {
	h := New()

	var (
		org  *site.Organization
		prop *site.Property
	)
	if b != nil {
		org, prop = b.Organization, b.Property
	}

	title := s.Name
	desc := s.Description
	if prop != nil {
		if addr := prop.FullAddress(); addr != "" && title == "" {
			title = addr
		}
		if desc == "" {
			desc = prop.Description
		}
	}
	if org != nil && org.Name != "" && !strings.Contains(title, org.Name) && s.Kind == site.KindPortfolio {
		title = joinNonEmpty(" | ", title, org.Name)
	}
	h.SetTitle(title)
	h.SetDescription(desc)

	url := canonical(s, baseURL)
	h.Link("canonical", url)
	if org != nil {
		h.Link("icon", org.LogoURL)
	}

	h.Property("og:title", title)
	h.Property("og:description", h.description)
	h.Property("og:url", url)
	h.Property("og:image", ogImage(s, prop))
	if s.Kind == site.KindProperty {
		h.Property("og:type", "place")
	} else {
		h.Property("og:type", "website")
	}
	if org != nil {
		h.Property("og:site_name", org.Name)
	}
	h.Name("twitter:card", "summary_large_image")

	if s.Kind == site.KindProperty && prop != nil {
		h.JSONLD(listing(title, h.description, url, prop))
	} else if org != nil {
		h.JSONLD(service(org, url))
	}
	return h
}

// ForGate fills a Builder for a gate or notice page.  Gated and expired
// content must not be indexed.
func ForGate(s *site.Site, title string) *Builder {
	h := New()
	if s != nil && s.Name != "" {
		title = joinNonEmpty(" | ", title, s.Name)
	}
	h.SetTitle(title)
	h.Name("robots", "noindex, nofollow")
	return h
}

func canonical(s *site.Site, baseURL string) string {
	if s.CustomDomain != "" && s.CustomDomainVerified {
		return "https://" + s.CustomDomain + "/"
	}
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + s.Path()
}

func ogImage(s *site.Site, prop *site.Property) string {
	if s.HeroImageURL != "" {
		return s.HeroImageURL
	}
	if prop != nil {
		for _, p := range prop.Photos {
			if p.URL != "" {
				return p.URL
			}
		}
	}
	return s.LogoURL
}

func listing(name, desc, url string, p *site.Property) map[string]any {
	addr := map[string]any{
		"@type":           "PostalAddress",
		"streetAddress":   p.Address,
		"addressLocality": p.City,
		"addressRegion":   p.State,
		"postalCode":      p.PostalCode,
	}
	home := map[string]any{
		"@type":   "SingleFamilyResidence",
		"address": addr,
	}
	if p.Beds > 0 {
		home["numberOfRooms"] = p.Beds
	}
	if p.SquareFeet > 0 {
		home["floorSize"] = map[string]any{"@type": "QuantitativeValue", "value": p.SquareFeet, "unitCode": "FTK"}
	}
	if p.Latitude != nil && p.Longitude != nil {
		home["geo"] = map[string]any{"@type": "GeoCoordinates", "latitude": *p.Latitude, "longitude": *p.Longitude}
	}

	out := map[string]any{
		"@context": "https://schema.org",
		"@type":    "RealEstateListing",
		"name":     name,
		"about":    home,
	}
	if desc != "" {
		out["description"] = desc
	}
	if url != "" {
		out["url"] = url
	}
	if p.PriceCents > 0 {
		out["offers"] = map[string]any{
			"@type":         "Offer",
			"price":         p.PriceCents / 100,
			"priceCurrency": "USD",
		}
	}
	var imgs []string
	for _, ph := range p.Photos {
		if ph.URL != "" {
			imgs = append(imgs, ph.URL)
		}
	}
	if len(imgs) > 0 {
		out["image"] = imgs
	}
	return out
}

func service(o *site.Organization, url string) map[string]any {
	out := map[string]any{
		"@context": "https://schema.org",
		"@type":    "ProfessionalService",
		"name":     o.Name,
	}
	for k, v := range map[string]string{"email": o.Email, "telephone": o.Phone, "logo": o.LogoURL, "url": url} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	var keep []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			keep = append(keep, p)
		}
	}
	return strings.Join(keep, sep)
}
