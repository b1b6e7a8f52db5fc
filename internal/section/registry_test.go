package section

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryTypeHasVariantAndDecodableDefaults(t *testing.T) {
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			d := Lookup(typ)
			assert.True(t, d.Known)
			assert.NotEmpty(t, d.Name)

			cfg, err := Effective(typ, nil)
			require.NoError(t, err)
			assert.Equal(t, typ, cfg.Type())
		})
	}
	assert.Len(t, definitions, len(Types))
}

func TestLookupUnknown(t *testing.T) {
	d := Lookup("carousel3d")
	assert.False(t, d.Known)
	assert.False(t, d.AutoFill)
	assert.Equal(t, Type("carousel3d"), d.Type)
	assert.Empty(t, Defaults("carousel3d"))

	_, err := Effective("carousel3d", map[string]any{"x": 1})
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestDefaultsAreFresh(t *testing.T) {
	a := Defaults(FAQ)
	a["title"] = "changed"
	a["items"] = append(a["items"].([]any), "x")

	b := Defaults(FAQ)
	assert.Equal(t, "Frequently Asked Questions", b["title"])
	assert.Empty(t, b["items"])
}

func TestEffectiveStoredOverridesDefaults(t *testing.T) {
	cfg, err := Effective(Hero, map[string]any{"title": "Jane Doe Photography"})
	require.NoError(t, err)

	hero := cfg.(*HeroConfig)
	assert.Equal(t, "Jane Doe Photography", hero.Title)
	assert.Equal(t, "centered", hero.Layout)
	assert.Equal(t, 40, hero.OverlayOpacity)
}

func TestEffectiveBadConfig(t *testing.T) {
	_, err := Effective(Testimonials, map[string]any{"items": "not a list"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadConfig))
}

func TestDisplayablePolicy(t *testing.T) {
	alwaysShown := []Type{Gallery, Contact, InquiryForm, Spacer, CTA, Details}
	for _, typ := range alwaysShown {
		cfg, err := Effective(typ, nil)
		require.NoError(t, err)
		assert.Truef(t, cfg.Displayable(), "%s should render even when empty", typ)
	}

	hiddenWhenEmpty := []Type{
		About, Services, Testimonials, FAQ, Text, Image, Video, Pricing, Stats,
		Process, Description, Features, VirtualTour, LocationMap, AgentInfo,
		MortgageCalculator, Neighborhood, WalkScore,
	}
	for _, typ := range hiddenWhenEmpty {
		cfg, err := Effective(typ, nil)
		require.NoError(t, err)
		assert.Falsef(t, cfg.Displayable(), "%s should hide when empty", typ)
	}

	cfg, err := Effective(Testimonials, map[string]any{
		"items": []any{map[string]any{"quote": "Wonderful", "author": "Sam"}},
	})
	require.NoError(t, err)
	assert.True(t, cfg.Displayable())
}

func TestHeroHiddenWhenBlank(t *testing.T) {
	cfg, err := Effective(Hero, map[string]any{"title": "   "})
	require.NoError(t, err)
	assert.False(t, cfg.Displayable())
}

func TestEffectiveDropsStoredLiveFields(t *testing.T) {
	cfg, err := Effective(MortgageCalculator, map[string]any{"price": "$450,000", "termYears": 15})
	require.NoError(t, err)
	m := cfg.(*MortgageCalculatorConfig)
	assert.Zero(t, m.PriceCents)
	assert.Equal(t, 15, m.TermYears)

	// Non-live fields are still checked.
	_, err = Effective(MortgageCalculator, map[string]any{"termYears": "fifteen"})
	assert.ErrorIs(t, err, ErrBadConfig)
}

func TestLiveKeysOnlyForAutoFillTypes(t *testing.T) {
	for typ := range liveKeys {
		assert.True(t, Lookup(typ).AutoFill, typ)
	}
}
