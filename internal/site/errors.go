package site

import "errors"

var (
	// ErrNoSite is returned when no website row matches a lookup.
	ErrNoSite = errors.New("site: not found")
	// ErrNoSection is returned when a section id has no row.
	ErrNoSection = errors.New("site: section not found")
	// ErrNoBusiness is returned when the owning organization or property
	// row is missing.
	ErrNoBusiness = errors.New("site: business record not found")
)
