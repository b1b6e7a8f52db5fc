package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/grant"
	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

type grants map[grant.Kind]bool

func (g grants) Has(_ *site.Site, k grant.Kind) bool { return g[k] }

func TestSequencerOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name   string
		site   site.Site
		grants grant.Checker
		want   Stage
	}{
		{"open", site.Site{}, nil, StageOpen},
		{"expired beats password", site.Site{ExpiresAt: &past, IsPasswordProtected: true}, nil, StageExpired},
		{"expiry instant is expired", site.Site{ExpiresAt: &now}, nil, StageExpired},
		{"future expiry", site.Site{ExpiresAt: &future}, nil, StageOpen},
		{"password", site.Site{IsPasswordProtected: true, RequireLeadCapture: true}, nil, StagePassword},
		{"lead after access grant", site.Site{IsPasswordProtected: true, RequireLeadCapture: true},
			grants{grant.Access: true}, StageLead},
		{"lead grant alone does not open password", site.Site{IsPasswordProtected: true, RequireLeadCapture: true},
			grants{grant.Lead: true}, StagePassword},
		{"both grants", site.Site{IsPasswordProtected: true, RequireLeadCapture: true},
			grants{grant.Access: true, grant.Lead: true}, StageOpen},
		{"lead only", site.Site{RequireLeadCapture: true}, grant.None, StageLead},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := tc.site
			assert.Equal(t, tc.want, Sequencer{}.Evaluate(&s, tc.grants, now))
		})
	}
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "open", StageOpen.String())
	assert.Equal(t, "expired", StageExpired.String())
	assert.Equal(t, "password", StagePassword.String())
	assert.Equal(t, "lead", StageLead.String())
}
