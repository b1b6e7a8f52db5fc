// Package gate runs a visitor through a site's access gates and handles
// the submissions that clear them.
//
// The Sequencer is a strict, short-circuiting state machine:
//
//	expired?                          → StageExpired  (terminal)
//	password-protected, no grant?     → StagePassword
//	lead capture required, no grant?  → StageLead
//	otherwise                         → StageOpen
//
// Expiry comes first so an expired site never reveals that it is
// protected.  Password comes before lead capture so the lead form is only
// shown to visitors who are already authorised.
package gate

import (
	"time"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// Stage is the first unsatisfied gate, or StageOpen.
type Stage int

const (
	StageOpen Stage = iota
	StageExpired
	StagePassword
	StageLead
)

func (s Stage) String() string {
	switch s {
	case StageExpired:
		return "expired"
	case StagePassword:
		return "password"
	case StageLead:
		return "lead"
	default:
		return "open"
	}
}

// Sequencer evaluates gates.  The zero value is ready to use.
type Sequencer struct{}

// Evaluate returns the first gate s blocks the visitor at.  Callers
// resolve unpublished sites to NotFound before asking.
func (Sequencer) Evaluate(s *site.Site, grants grant.Checker, now time.Time) Stage {
	if grants == nil {
		grants = grant.None
	}
	if s.ExpiresAt != nil && !now.Before(*s.ExpiresAt) {
		return StageExpired
	}
	if s.IsPasswordProtected && !grants.Has(s, grant.Access) {
		return StagePassword
	}
	if s.RequireLeadCapture && !grants.Has(s, grant.Lead) {
		return StageLead
	}
	return StageOpen
}
