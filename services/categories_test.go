package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapOFFCategory(t *testing.T) {
	t.Run("first known tag wins", func(t *testing.T) {
		got := MapOFFCategory([]string{"en:dairies", "en:yogurts"})
		assert.Equal(t, CategoryDairy, got)
	})

	t.Run("unknown tags fall through", func(t *testing.T) {
		got := MapOFFCategory([]string{"en:plant-based-foods", "de:irgendwas", "en:quark"})
		assert.Equal(t, CategoryDairy, got)
	})

	t.Run("skip tag short-circuits even before a known tag", func(t *testing.T) {
		got := MapOFFCategory([]string{"en:snacks", "en:breads"})
		assert.Equal(t, CategorySkip, got)
	})

	t.Run("tag matching is case-insensitive", func(t *testing.T) {
		got := MapOFFCategory([]string{"en:Breads"})
		assert.Equal(t, CategoryGrains, got)
	})

	t.Run("no match defaults to other", func(t *testing.T) {
		assert.Equal(t, CategoryOther, MapOFFCategory([]string{"en:unknown-stuff"}))
		assert.Equal(t, CategoryOther, MapOFFCategory(nil))
	})
}

func TestMapBLSCategory(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"B105100", CategoryGrains},
		{"b105100", CategoryGrains}, // Kleinbuchstaben aus CSV-Exporten
		{"M111000", CategoryDairy},
		{"U403100", CategoryMeatFish},
		{"G251100", CategoryVegetables},
		{"X999999", CategoryOther},
		{"Q000000", CategoryOther}, // Buchstabe ohne Zuordnung
		{"", CategoryOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapBLSCategory(tc.code), "code %q", tc.code)
	}
}
