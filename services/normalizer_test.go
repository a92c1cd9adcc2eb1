package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeForMatching(t *testing.T) {
	t.Run("lowercases and prefixes brand", func(t *testing.T) {
		got := NormalizeForMatching("Magerquark", "ja!")
		assert.Equal(t, "ja magerquark", got)
	})

	t.Run("strips size tokens", func(t *testing.T) {
		assert.Equal(t,
			NormalizeForMatching("Magerquark 500g", "ja!"),
			NormalizeForMatching("Magerquark", "ja!"))
		assert.Equal(t,
			NormalizeForMatching("1kg Bananen", ""),
			NormalizeForMatching("Bananen", ""))
		assert.Equal(t,
			NormalizeForMatching("Vollmilch 1,5 l", "REWE"),
			NormalizeForMatching("Vollmilch", "rewe"))
	})

	t.Run("strips noise characters", func(t *testing.T) {
		got := NormalizeForMatching("Bio-Haferflocken (kernig)", "Kölln®")
		assert.Equal(t, "kölln bio haferflocken kernig", got)
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		got := NormalizeForMatching("  Skyr   Natur  ", "")
		assert.Equal(t, "skyr natur", got)
	})

	t.Run("brand already in name stays stable across casing", func(t *testing.T) {
		a := NormalizeForMatching("Quark 500g", "REWE Bio")
		b := NormalizeForMatching("Quark", "rewe bio")
		assert.Equal(t, a, b)
	})

	t.Run("returns empty for letterless input", func(t *testing.T) {
		assert.Equal(t, "", NormalizeForMatching("12345", ""))
		assert.Equal(t, "", NormalizeForMatching("???", "---"))
		assert.Equal(t, "", NormalizeForMatching("", ""))
	})
}
