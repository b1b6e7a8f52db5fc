package section

// Definition describes a section type for the editor palette and tells
// the composer whether the auto-fill overlay applies.  Known is false for
// tags outside the closed set.
type Definition struct {
	Type        Type
	Name        string
	Description string
	Category    Category
	AutoFill    bool
	Known       bool
}

type entry struct {
	def      Definition
	defaults func() map[string]any
}

// definitions is the single source of truth for the closed type set.
// Defaults are functions so every caller receives fresh slices and maps.
var definitions = map[Type]entry{
	Hero: {Definition{Name: "Hero", Description: "Large banner with headline and call to action", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{
				"title": "", "subtitle": "", "backgroundImage": "",
				"ctaText": "", "ctaLink": "", "layout": "centered", "overlayOpacity": 40,
			}
		}},
	About: {Definition{Name: "About", Description: "Biography with photo and highlights", Category: CategoryPortfolio},
		func() map[string]any {
			return map[string]any{
				"title": "About Me", "content": "", "image": "", "highlights": []any{}, "layout": "image-left",
			}
		}},
	Gallery: {Definition{Name: "Gallery", Description: "Grid of images", Category: CategoryCommon, AutoFill: true},
		func() map[string]any {
			return map[string]any{
				"title": "Gallery", "images": []any{}, "layout": "grid", "columns": 3, "showCaptions": false,
			}
		}},
	Services: {Definition{Name: "Services", Description: "Offered services with optional prices", Category: CategoryPortfolio},
		func() map[string]any {
			return map[string]any{"title": "Services", "items": []any{}, "columns": 3}
		}},
	Testimonials: {Definition{Name: "Testimonials", Description: "Client quotes", Category: CategoryPortfolio},
		func() map[string]any {
			return map[string]any{"title": "What Clients Say", "items": []any{}, "layout": "grid"}
		}},
	Contact: {Definition{Name: "Contact", Description: "Contact details and message form", Category: CategoryCommon, AutoFill: true},
		func() map[string]any {
			return map[string]any{
				"title": "Get in Touch", "subtitle": "", "email": "", "phone": "",
				"address": "", "showForm": true, "buttonText": "Send Message",
			}
		}},
	FAQ: {Definition{Name: "FAQ", Description: "Frequently asked questions", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{"title": "Frequently Asked Questions", "items": []any{}}
		}},
	Text: {Definition{Name: "Text", Description: "Free-form Markdown block", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{"content": "", "alignment": "left"}
		}},
	Image: {Definition{Name: "Image", Description: "Single image with caption", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{"url": "", "alt": "", "caption": "", "fullWidth": false}
		}},
	Video: {Definition{Name: "Video", Description: "Embedded YouTube or Vimeo video", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{"url": "", "title": "", "autoplay": false, "aspectRatio": "16:9"}
		}},
	Spacer: {Definition{Name: "Spacer", Description: "Vertical whitespace", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{"height": 64, "showDivider": false}
		}},
	Pricing: {Definition{Name: "Pricing", Description: "Package tiers", Category: CategoryPortfolio},
		func() map[string]any {
			return map[string]any{"title": "Pricing", "tiers": []any{}}
		}},
	Stats: {Definition{Name: "Stats", Description: "Headline numbers", Category: CategoryPortfolio},
		func() map[string]any {
			return map[string]any{"title": "", "items": []any{}}
		}},
	Process: {Definition{Name: "Process", Description: "Numbered workflow steps", Category: CategoryPortfolio},
		func() map[string]any {
			return map[string]any{"title": "How It Works", "steps": []any{}}
		}},
	CTA: {Definition{Name: "Call to Action", Description: "Prominent button banner", Category: CategoryCommon},
		func() map[string]any {
			return map[string]any{
				"title": "Ready to get started?", "subtitle": "", "buttonText": "Contact Us",
				"buttonLink": "#contact", "style": "primary",
			}
		}},

	Details: {Definition{Name: "Property Details", Description: "Price, beds, baths, and size", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "Property Details", "showPrice": true, "showAddress": true, "layout": "grid"}
		}},
	Description: {Definition{Name: "Description", Description: "Listing description", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "About This Home", "content": ""}
		}},
	Features: {Definition{Name: "Features", Description: "Listing feature list", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "Features", "columns": 2}
		}},
	VirtualTour: {Definition{Name: "Virtual Tour", Description: "Embedded 3D tour", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "Virtual Tour", "url": ""}
		}},
	LocationMap: {Definition{Name: "Location", Description: "Map of the listing", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "Location", "zoom": 15}
		}},
	AgentInfo: {Definition{Name: "Agent", Description: "Listing agent card", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"heading": "Listed By", "showContactButtons": true}
		}},
	InquiryForm: {Definition{Name: "Inquiry Form", Description: "Request information form", Category: CategoryProperty},
		func() map[string]any {
			return map[string]any{
				"title": "Interested in this property?", "subtitle": "", "buttonText": "Request Info",
				"successMessage": "Thanks! We will be in touch shortly.", "showPhone": true, "showMessage": true,
			}
		}},
	MortgageCalculator: {Definition{Name: "Mortgage Calculator", Description: "Estimated monthly payment", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{
				"title": "Mortgage Calculator", "downPaymentPercent": 20.0,
				"interestRate": 6.5, "termYears": 30,
			}
		}},
	Neighborhood: {Definition{Name: "Neighborhood", Description: "Area overview and highlights", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "The Neighborhood", "description": "", "highlights": []any{}}
		}},
	WalkScore: {Definition{Name: "Walk Score", Description: "Walk, transit, and bike scores", Category: CategoryProperty, AutoFill: true},
		func() map[string]any {
			return map[string]any{"title": "Getting Around", "showTransit": true, "showBike": true}
		}},
}

// Lookup returns the definition for t.  Unknown tags yield an empty
// capability definition with Known false; it never fails.
func Lookup(t Type) Definition {
	e, ok := definitions[t]
	if !ok {
		return Definition{Type: t, Name: string(t)}
	}
	d := e.def
	d.Type = t
	d.Known = true
	return d
}

// Defaults returns a fresh default config for t, or an empty map for
// unknown tags.
func Defaults(t Type) map[string]any {
	e, ok := definitions[t]
	if !ok {
		return map[string]any{}
	}
	return e.defaults()
}

// All returns every known definition in Types order.
func All() []Definition {
	out := make([]Definition, 0, len(Types))
	for _, t := range Types {
		out = append(out, Lookup(t))
	}
	return out
}
