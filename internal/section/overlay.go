package section

import (
	"strings"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// liveKeys are the JSON keys Overlay always overwrites, per type.  Keep in
// step with the cases below.
var liveKeys = map[Type][]string{
	Details:            {"price", "address", "beds", "baths", "squareFeet", "lotSize", "yearBuilt", "propertyType"},
	Features:           {"items"},
	LocationMap:        {"latitude", "longitude", "address"},
	AgentInfo:          {"name", "title", "email", "phone", "photoUrl", "brokerage"},
	MortgageCalculator: {"price"},
	Neighborhood:       {"locality"},
	WalkScore:          {"walkScore", "transitScore", "bikeScore"},
}

// Overlay returns a copy of cfg with business-derived values applied.  It
// is the one authoritative auto-fill step; renderers never fall back on
// their own.
//
// Two field classes exist.  Live fields (price, address, beds, baths,
// features, coordinates, scores, agent contact) are always taken from the
// business record, even when that record is missing and the value is
// therefore zero; stored config never wins for them.  Fallback fields
// (description content, gallery images, contact details) keep a
// non-empty stored value and use business data otherwise.  Presentation
// knobs are never touched.
//
// Types without auto-fill are returned unchanged.
func Overlay(cfg Config, b *site.Business) Config {
	var (
		org  *site.Organization
		prop *site.Property
	)
	if b != nil {
		org, prop = b.Organization, b.Property
	}

	switch c := cfg.(type) {
	case *GalleryConfig:
		out := *c
		if len(out.Images) == 0 && prop != nil {
			for _, p := range prop.Photos {
				if p.URL == "" {
					continue
				}
				out.Images = append(out.Images, Photo{URL: p.URL, Caption: p.Caption, Alt: p.Alt})
			}
		}
		return &out

	case *ContactConfig:
		// Property sites reach the listing agent first.
		out := *c
		if prop != nil {
			out.Email = fallback(out.Email, prop.AgentEmail)
			out.Phone = fallback(out.Phone, prop.AgentPhone)
		}
		if org != nil {
			out.Email = fallback(out.Email, org.Email)
			out.Phone = fallback(out.Phone, org.Phone)
		}
		return &out

	case *DetailsConfig:
		out := *c
		out.PriceCents, out.Address, out.Beds, out.Baths = 0, "", 0, 0
		out.SquareFeet, out.LotSize, out.YearBuilt, out.PropertyType = 0, "", 0, ""
		if prop != nil {
			out.PriceCents = prop.PriceCents
			out.Address = prop.FullAddress()
			out.Beds = prop.Beds
			out.Baths = prop.Baths
			out.SquareFeet = prop.SquareFeet
			out.LotSize = prop.LotSize
			out.YearBuilt = prop.YearBuilt
			out.PropertyType = prop.PropertyType
		}
		return &out

	case *DescriptionConfig:
		out := *c
		if prop != nil {
			out.Content = fallback(out.Content, prop.Description)
		}
		return &out

	case *FeaturesConfig:
		out := *c
		out.Items = nil
		if prop != nil && len(prop.Features) > 0 {
			out.Items = append([]string(nil), prop.Features...)
		}
		return &out

	case *VirtualTourConfig:
		out := *c
		if prop != nil && !blank(prop.VirtualTourURL) {
			out.URL = prop.VirtualTourURL
		}
		return &out

	case *LocationMapConfig:
		out := *c
		out.Latitude, out.Longitude, out.Address = nil, nil, ""
		if prop != nil {
			out.Latitude, out.Longitude = prop.Latitude, prop.Longitude
			out.Address = prop.FullAddress()
		}
		return &out

	case *AgentInfoConfig:
		out := *c
		out.Name, out.Title, out.Email, out.Phone, out.PhotoURL, out.Brokerage = "", "", "", "", "", ""
		if prop != nil {
			out.Name = prop.AgentName
			out.Title = prop.AgentTitle
			out.Email = prop.AgentEmail
			out.Phone = prop.AgentPhone
			out.PhotoURL = prop.AgentPhotoURL
			out.Brokerage = prop.Brokerage
		}
		return &out

	case *MortgageCalculatorConfig:
		out := *c
		out.PriceCents = 0
		if prop != nil {
			out.PriceCents = prop.PriceCents
		}
		return &out

	case *NeighborhoodConfig:
		out := *c
		out.Locality = ""
		if prop != nil {
			out.Locality = strings.Trim(prop.City+", "+prop.State, ", ")
		}
		return &out

	case *WalkScoreConfig:
		out := *c
		out.WalkScore, out.TransitScore, out.BikeScore = 0, 0, 0
		if prop != nil {
			out.WalkScore, out.TransitScore, out.BikeScore = prop.WalkScore, prop.TransitScore, prop.BikeScore
		}
		return &out
	}
	return cfg
}

func fallback(stored, business string) string {
	if blank(stored) {
		return business
	}
	return stored
}
