package section

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownType marks a section_type outside the closed set.
	ErrUnknownType = errors.New("section: unknown type")
	// ErrBadConfig marks a stored config that cannot be decoded into the
	// type's variant.
	ErrBadConfig = errors.New("section: undecodable config")
)

// Config is the closed variant set.  Every concrete type in this file
// implements it and the render dispatcher switches over them exhaustively.
//
// Displayable reports whether the effective config has anything to show.
// Types that must always render (an empty state, a form, whitespace)
// return true unconditionally.
type Config interface {
	Type() Type
	Displayable() bool
}

//
// Shared item shapes
//

type Photo struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

type ServiceItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type TestimonialItem struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
	Role   string `json:"role,omitempty"`
	Rating int    `json:"rating,omitempty"`
	Image  string `json:"image,omitempty"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type PricingTier struct {
	Name        string   `json:"name"`
	Price       string   `json:"price"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description,omitempty"`
	Features    []string `json:"features,omitempty"`
	Highlighted bool     `json:"highlighted,omitempty"`
	ButtonText  string   `json:"buttonText,omitempty"`
	ButtonLink  string   `json:"buttonLink,omitempty"`
}

type StatItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

//
// Portfolio and shared variants
//

type HeroConfig struct {
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	BackgroundImage string `json:"backgroundImage"`
	CTAText         string `json:"ctaText"`
	CTALink         string `json:"ctaLink"`
	Layout          string `json:"layout"`
	OverlayOpacity  int    `json:"overlayOpacity"`
}

type AboutConfig struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Image      string   `json:"image"`
	Highlights []string `json:"highlights"`
	Layout     string   `json:"layout"`
}

// GalleryConfig always renders; an empty Images list shows an empty state.
type GalleryConfig struct {
	Title        string  `json:"title"`
	Images       []Photo `json:"images"`
	Layout       string  `json:"layout"`
	Columns      int     `json:"columns"`
	ShowCaptions bool    `json:"showCaptions"`
}

type ServicesConfig struct {
	Title   string        `json:"title"`
	Items   []ServiceItem `json:"items"`
	Columns int           `json:"columns"`
}

type TestimonialsConfig struct {
	Title  string            `json:"title"`
	Items  []TestimonialItem `json:"items"`
	Layout string            `json:"layout"`
}

type ContactConfig struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	ShowForm   bool   `json:"showForm"`
	ButtonText string `json:"buttonText"`
}

type FAQConfig struct {
	Title string    `json:"title"`
	Items []FAQItem `json:"items"`
}

// TextConfig holds Markdown content.
type TextConfig struct {
	Content   string `json:"content"`
	Alignment string `json:"alignment"`
}

type ImageConfig struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Caption   string `json:"caption"`
	FullWidth bool   `json:"fullWidth"`
}

type VideoConfig struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Autoplay    bool   `json:"autoplay"`
	AspectRatio string `json:"aspectRatio"`
}

type SpacerConfig struct {
	Height      int  `json:"height"`
	ShowDivider bool `json:"showDivider"`
}

type PricingConfig struct {
	Title string        `json:"title"`
	Tiers []PricingTier `json:"tiers"`
}

type StatsConfig struct {
	Title string     `json:"title"`
	Items []StatItem `json:"items"`
}

type ProcessConfig struct {
	Title string        `json:"title"`
	Steps []ProcessStep `json:"steps"`
}

type CTAConfig struct {
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	ButtonText string `json:"buttonText"`
	ButtonLink string `json:"buttonLink"`
	Style      string `json:"style"`
}

//
// Property variants.  Fields documented as live are overwritten by
// Overlay from the property record on every render.
//

// DetailsConfig: Title and the Show* toggles are presentation.  Everything
// else is live.
type DetailsConfig struct {
	Title        string  `json:"title"`
	ShowPrice    bool    `json:"showPrice"`
	ShowAddress  bool    `json:"showAddress"`
	Layout       string  `json:"layout"`
	PriceCents   int64   `json:"price"`
	Address      string  `json:"address"`
	Beds         int     `json:"beds"`
	Baths        float64 `json:"baths"`
	SquareFeet   int     `json:"squareFeet"`
	LotSize      string  `json:"lotSize"`
	YearBuilt    int     `json:"yearBuilt"`
	PropertyType string  `json:"propertyType"`
}

// DescriptionConfig.Content falls back to the property description.
type DescriptionConfig struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// FeaturesConfig.Items is live.
type FeaturesConfig struct {
	Title   string   `json:"title"`
	Items   []string `json:"items"`
	Columns int      `json:"columns"`
}

// VirtualTourConfig.URL prefers the property's tour link.
type VirtualTourConfig struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// LocationMapConfig: coordinates and address are live.
type LocationMapConfig struct {
	Title     string   `json:"title"`
	Zoom      int      `json:"zoom"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

// AgentInfoConfig: every agent field is live.
type AgentInfoConfig struct {
	Heading            string `json:"heading"`
	ShowContactButtons bool   `json:"showContactButtons"`
	Name               string `json:"name"`
	Title              string `json:"title"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	PhotoURL           string `json:"photoUrl"`
	Brokerage          string `json:"brokerage"`
}

type InquiryFormConfig struct {
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle"`
	ButtonText     string `json:"buttonText"`
	SuccessMessage string `json:"successMessage"`
	ShowPhone      bool   `json:"showPhone"`
	ShowMessage    bool   `json:"showMessage"`
}

// MortgageCalculatorConfig: PriceCents is live; the loan terms are
// presentation defaults the visitor can change client-side.
type MortgageCalculatorConfig struct {
	Title              string  `json:"title"`
	DownPaymentPercent float64 `json:"downPaymentPercent"`
	InterestRate       float64 `json:"interestRate"`
	TermYears          int     `json:"termYears"`
	PriceCents         int64   `json:"price"`
}

// NeighborhoodConfig: Locality is live, the rest is stored.
type NeighborhoodConfig struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
	Locality    string   `json:"locality"`
}

// WalkScoreConfig: the three scores are live.
type WalkScoreConfig struct {
	Title        string `json:"title"`
	ShowTransit  bool   `json:"showTransit"`
	ShowBike     bool   `json:"showBike"`
	WalkScore    int    `json:"walkScore"`
	TransitScore int    `json:"transitScore"`
	BikeScore    int    `json:"bikeScore"`
}

//
// Type / Displayable
//

func (*HeroConfig) Type() Type               { return Hero }
func (*AboutConfig) Type() Type              { return About }
func (*GalleryConfig) Type() Type            { return Gallery }
func (*ServicesConfig) Type() Type           { return Services }
func (*TestimonialsConfig) Type() Type       { return Testimonials }
func (*ContactConfig) Type() Type            { return Contact }
func (*FAQConfig) Type() Type                { return FAQ }
func (*TextConfig) Type() Type               { return Text }
func (*ImageConfig) Type() Type              { return Image }
func (*VideoConfig) Type() Type              { return Video }
func (*SpacerConfig) Type() Type             { return Spacer }
func (*PricingConfig) Type() Type            { return Pricing }
func (*StatsConfig) Type() Type              { return Stats }
func (*ProcessConfig) Type() Type            { return Process }
func (*CTAConfig) Type() Type                { return CTA }
func (*DetailsConfig) Type() Type            { return Details }
func (*DescriptionConfig) Type() Type        { return Description }
func (*FeaturesConfig) Type() Type           { return Features }
func (*VirtualTourConfig) Type() Type        { return VirtualTour }
func (*LocationMapConfig) Type() Type        { return LocationMap }
func (*AgentInfoConfig) Type() Type          { return AgentInfo }
func (*InquiryFormConfig) Type() Type        { return InquiryForm }
func (*MortgageCalculatorConfig) Type() Type { return MortgageCalculator }
func (*NeighborhoodConfig) Type() Type       { return Neighborhood }
func (*WalkScoreConfig) Type() Type          { return WalkScore }

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (c *HeroConfig) Displayable() bool {
	return !blank(c.Title) || !blank(c.Subtitle) || !blank(c.BackgroundImage)
}
func (c *AboutConfig) Displayable() bool        { return !blank(c.Content) || len(c.Highlights) > 0 }
func (c *GalleryConfig) Displayable() bool      { return true }
func (c *ServicesConfig) Displayable() bool     { return len(c.Items) > 0 }
func (c *TestimonialsConfig) Displayable() bool { return len(c.Items) > 0 }
func (c *ContactConfig) Displayable() bool      { return true }
func (c *FAQConfig) Displayable() bool          { return len(c.Items) > 0 }
func (c *TextConfig) Displayable() bool         { return !blank(c.Content) }
func (c *ImageConfig) Displayable() bool        { return !blank(c.URL) }
func (c *VideoConfig) Displayable() bool        { return !blank(c.URL) }
func (c *SpacerConfig) Displayable() bool       { return true }
func (c *PricingConfig) Displayable() bool      { return len(c.Tiers) > 0 }
func (c *StatsConfig) Displayable() bool        { return len(c.Items) > 0 }
func (c *ProcessConfig) Displayable() bool      { return len(c.Steps) > 0 }
func (c *CTAConfig) Displayable() bool          { return true }
func (c *DetailsConfig) Displayable() bool      { return true }
func (c *DescriptionConfig) Displayable() bool  { return !blank(c.Content) }
func (c *FeaturesConfig) Displayable() bool     { return len(c.Items) > 0 }
func (c *VirtualTourConfig) Displayable() bool  { return !blank(c.URL) }
func (c *LocationMapConfig) Displayable() bool {
	return (c.Latitude != nil && c.Longitude != nil) || !blank(c.Address)
}
func (c *AgentInfoConfig) Displayable() bool   { return !blank(c.Name) }
func (c *InquiryFormConfig) Displayable() bool { return true }
func (c *MortgageCalculatorConfig) Displayable() bool {
	return c.PriceCents > 0 && c.TermYears > 0
}
func (c *NeighborhoodConfig) Displayable() bool {
	return !blank(c.Description) || len(c.Highlights) > 0
}
func (c *WalkScoreConfig) Displayable() bool {
	return c.WalkScore > 0 || c.TransitScore > 0 || c.BikeScore > 0
}

//
// Decoding
//

// newConfig returns a zero variant for t, or nil for unknown tags.
func newConfig(t Type) Config {
	switch t {
	case Hero:
		return &HeroConfig{}
	case About:
		return &AboutConfig{}
	case Gallery:
		return &GalleryConfig{}
	case Services:
		return &ServicesConfig{}
	case Testimonials:
		return &TestimonialsConfig{}
	case Contact:
		return &ContactConfig{}
	case FAQ:
		return &FAQConfig{}
	case Text:
		return &TextConfig{}
	case Image:
		return &ImageConfig{}
	case Video:
		return &VideoConfig{}
	case Spacer:
		return &SpacerConfig{}
	case Pricing:
		return &PricingConfig{}
	case Stats:
		return &StatsConfig{}
	case Process:
		return &ProcessConfig{}
	case CTA:
		return &CTAConfig{}
	case Details:
		return &DetailsConfig{}
	case Description:
		return &DescriptionConfig{}
	case Features:
		return &FeaturesConfig{}
	case VirtualTour:
		return &VirtualTourConfig{}
	case LocationMap:
		return &LocationMapConfig{}
	case AgentInfo:
		return &AgentInfoConfig{}
	case InquiryForm:
		return &InquiryFormConfig{}
	case MortgageCalculator:
		return &MortgageCalculatorConfig{}
	case Neighborhood:
		return &NeighborhoodConfig{}
	case WalkScore:
		return &WalkScoreConfig{}
	}
	return nil
}

// Decode converts an effective config object into t's variant.  Unknown
// keys are ignored; a value of the wrong JSON type is ErrBadConfig.
func Decode(t Type, effective map[string]any) (Config, error) {
	cfg := newConfig(t)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	raw, err := json.Marshal(effective)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadConfig, t, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadConfig, t, err)
	}
	return cfg, nil
}

// Effective shallow-merges stored over the type defaults and decodes the
// result.  This is the only place defaults are applied.  Stored values of
// live fields are discarded before decoding, so a malformed one cannot
// turn an auto-filled section into a placeholder.
func Effective(t Type, stored map[string]any) (Config, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	merged := Merge(Defaults(t), stored)
	for _, k := range liveKeys[t] {
		delete(merged, k)
	}
	return Decode(t, merged)
}
