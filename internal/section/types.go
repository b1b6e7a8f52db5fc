// Package section owns the closed set of website section types: their
// human-readable definitions, their default configs, the typed config
// variant each one decodes into, and the auto-fill overlay that merges
// live business data over stored config.
//
// Everything in this package is pure.  Persistence lives in internal/site
// and presentation in internal/render.
package section

// Type is the section_type tag stored on each section row.
type Type string

// Portfolio and shared types.
const (
	Hero         Type = "hero"
	About        Type = "about"
	Gallery      Type = "gallery"
	Services     Type = "services"
	Testimonials Type = "testimonials"
	Contact      Type = "contact"
	FAQ          Type = "faq"
	Text         Type = "text"
	Image        Type = "image"
	Video        Type = "video"
	Spacer       Type = "spacer"
	Pricing      Type = "pricing"
	Stats        Type = "stats"
	Process      Type = "process"
	CTA          Type = "cta"
)

// Property-only types.
const (
	Details            Type = "details"
	Description        Type = "description"
	Features           Type = "features"
	VirtualTour        Type = "virtual_tour"
	LocationMap        Type = "location_map"
	AgentInfo          Type = "agent_info"
	InquiryForm        Type = "inquiry_form"
	MortgageCalculator Type = "mortgage_calculator"
	Neighborhood       Type = "neighborhood"
	WalkScore          Type = "walk_score"
)

// Types lists every known type in editor display order.
var Types = []Type{
	Hero, About, Gallery, Services, Testimonials, Contact, FAQ, Text, Image,
	Video, Spacer, Pricing, Stats, Process, CTA,
	Details, Description, Features, VirtualTour, LocationMap, AgentInfo,
	InquiryForm, MortgageCalculator, Neighborhood, WalkScore,
}

// Category groups types for the editor palette.
type Category string

const (
	CategoryCommon    Category = "common"
	CategoryPortfolio Category = "portfolio"
	CategoryProperty  Category = "property"
)

// IsValid reports whether t is one of Types.
func (t Type) IsValid() bool {
	_, ok := definitions[t]
	return ok
}
