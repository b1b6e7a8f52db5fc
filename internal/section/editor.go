package section

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

// Store is the slice of site.Store the editor needs.
type Store interface {
	AddSection(ctx context.Context, sec *site.Section) (uint64, error)
	SectionByID(ctx context.Context, id uint64) (*site.Section, error)
	UpdateSectionConfig(ctx context.Context, id uint64, cfg json.RawMessage) error
}

// Editor is the write path the dashboard uses: new sections are seeded
// with their type defaults and configs only ever change through Merge.
type Editor struct {
	store Store
	now   func() time.Time
}

// NewEditor returns an Editor over store.
func NewEditor(store Store) *Editor {
	return &Editor{store: store, now: time.Now}
}

// Add creates a visible section of type t seeded with Defaults(t).
func (e *Editor) Add(ctx context.Context, siteID uint64, t Type, sortOrder int) (*site.Section, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	raw, err := json.Marshal(Defaults(t))
	if err != nil {
		return nil, err
	}
	sec := &site.Section{
		SiteID:    siteID,
		Type:      string(t),
		SortOrder: sortOrder,
		IsVisible: true,
		Config:    raw,
		CreatedAt: e.now().UTC(),
	}
	if sec.ID, err = e.store.AddSection(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

// Patch merges patch into the stored config of section id and persists
// the result.  It returns the merged object.
func (e *Editor) Patch(ctx context.Context, id uint64, patch map[string]any) (map[string]any, error) {
	sec, err := e.store.SectionByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := sec.ConfigMap()
	if err != nil {
		return nil, fmt.Errorf("%w: section %d: %v", ErrBadConfig, id, err)
	}
	merged := Merge(stored, patch)
	raw, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	if err := e.store.UpdateSectionConfig(ctx, id, raw); err != nil {
		return nil, err
	}
	return merged, nil
}
