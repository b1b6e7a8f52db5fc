package section

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EstateFlowDigital/photoproos-sub004/internal/site"
)

type memStore struct {
	next uint64
	rows map[uint64]*site.Section
}

func newMemStore() *memStore { return &memStore{rows: map[uint64]*site.Section{}} }

func (m *memStore) AddSection(_ context.Context, sec *site.Section) (uint64, error) {
	m.next++
	cp := *sec
	cp.ID = m.next
	m.rows[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) SectionByID(_ context.Context, id uint64) (*site.Section, error) {
	sec, ok := m.rows[id]
	if !ok {
		return nil, site.ErrNoSection
	}
	cp := *sec
	return &cp, nil
}

func (m *memStore) UpdateSectionConfig(_ context.Context, id uint64, cfg json.RawMessage) error {
	sec, ok := m.rows[id]
	if !ok {
		return site.ErrNoSection
	}
	sec.Config = cfg
	return nil
}

func TestEditorAddSeedsDefaults(t *testing.T) {
	store := newMemStore()
	ed := NewEditor(store)

	sec, err := ed.Add(context.Background(), 4, Testimonials, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), sec.ID)
	assert.True(t, sec.IsVisible)
	assert.JSONEq(t, `{"title":"What Clients Say","items":[],"layout":"grid"}`, string(sec.Config))

	_, err = ed.Add(context.Background(), 4, "bogus", 0)
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestEditorPatchIsIdempotent(t *testing.T) {
	store := newMemStore()
	ed := NewEditor(store)
	ctx := context.Background()

	sec, err := ed.Add(ctx, 1, Hero, 0)
	require.NoError(t, err)

	patch := map[string]any{"title": "Golden Hour Studio", "ctaLink": nil}
	first, err := ed.Patch(ctx, sec.ID, patch)
	require.NoError(t, err)
	second, err := ed.Patch(ctx, sec.ID, patch)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "Golden Hour Studio", second["title"])
	assert.NotContains(t, second, "ctaLink")
	assert.Contains(t, second, "layout")

	_, err = ed.Patch(ctx, 99, patch)
	assert.ErrorIs(t, err, site.ErrNoSection)
}
