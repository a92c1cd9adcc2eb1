package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StephanBK/sloth/models"
)

func TestSimilarityRatio(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, SimilarityRatio("magerquark", "magerquark"))
	})

	t.Run("empty strings", func(t *testing.T) {
		assert.Equal(t, 1.0, SimilarityRatio("", ""))
		assert.Equal(t, 0.0, SimilarityRatio("quark", ""))
	})

	t.Run("disjoint strings", func(t *testing.T) {
		assert.Equal(t, 0.0, SimilarityRatio("abc", "xyz"))
	})

	t.Run("ratio is 2M over T", func(t *testing.T) {
		// "abcd" vs "bcde": längster gemeinsamer Block "bcd" (3), T=8
		assert.InDelta(t, 0.75, SimilarityRatio("abcd", "bcde"), 1e-9)
	})

	t.Run("symmetric enough for near duplicates", func(t *testing.T) {
		a := "ja magerquark"
		b := "ja magerquark 0 2 fett"
		assert.Greater(t, SimilarityRatio(a, b), 0.7)
	})
}

func TestMatcherBarcodeExact(t *testing.T) {
	m := NewMatcher(0.80, zap.NewNop())
	m.Seed("p1", "Magerquark", "ja!", "4388860540116")

	match, ratio := m.Match(&models.StagingProduct{
		Name: "Völlig anderer Name", EAN: "4388860540116",
	})
	require.NotNil(t, match)
	assert.Equal(t, "p1", match.ProductID)
	assert.Equal(t, models.MatchBarcodeExact, match.Method)
	assert.Equal(t, 1.0, ratio)
}

func TestMatcherFuzzyThreshold(t *testing.T) {
	m := NewMatcher(0.80, zap.NewNop())
	m.Seed("p1", "Magerquark", "ja!", "")

	t.Run("near duplicate above threshold is caught", func(t *testing.T) {
		match, ratio := m.Match(&models.StagingProduct{Name: "Magerquark", Brand: "ja"})
		require.NotNil(t, match)
		assert.Equal(t, "p1", match.ProductID)
		assert.Equal(t, models.MatchFuzzyName, match.Method)
		assert.GreaterOrEqual(t, ratio, 0.80)
	})

	t.Run("different product below threshold passes", func(t *testing.T) {
		match, ratio := m.Match(&models.StagingProduct{Name: "Haferflocken", Brand: "Kölln"})
		assert.Nil(t, match)
		assert.Less(t, ratio, 0.80)
	})

	t.Run("barcode differing does not defeat fuzzy match", func(t *testing.T) {
		match, _ := m.Match(&models.StagingProduct{Name: "Magerquark", Brand: "ja", EAN: "40099999"})
		require.NotNil(t, match)
		assert.Equal(t, models.MatchFuzzyName, match.Method)
	})
}

func TestMatcherThresholdBoundary(t *testing.T) {
	// Konstruierte Paare: "abcd" vs "abcdxy" hat exakt 2*4/10 = 0.80,
	// "abcd" vs "abcdxyz" liegt mit 8/11 knapp darunter.
	m := NewMatcher(0.80, zap.NewNop())
	m.Seed("p1", "abcd", "", "")

	t.Run("exactly at threshold matches", func(t *testing.T) {
		assert.Equal(t, 0.80, SimilarityRatio("abcd", "abcdxy"))
		match, _ := m.Match(&models.StagingProduct{Name: "abcdxy"})
		require.NotNil(t, match)
		assert.Equal(t, "p1", match.ProductID)
	})

	t.Run("just below threshold is distinct", func(t *testing.T) {
		assert.Less(t, SimilarityRatio("abcd", "abcdxyz"), 0.80)
		match, _ := m.Match(&models.StagingProduct{Name: "abcdxyz"})
		assert.Nil(t, match)
	})
}

func TestMatcherTieBreakIsDeterministic(t *testing.T) {
	// "abcdef" und "abcdgh" liegen beide bei exakt 0.80 gegen "abcd"; der
	// Treffer darf nicht von der Map-Iterationsreihenfolge abhängen.
	m := NewMatcher(0.80, zap.NewNop())
	m.Seed("p-gh", "abcdgh", "", "")
	m.Seed("p-ef", "abcdef", "", "")

	require.Equal(t, SimilarityRatio("abcd", "abcdef"), SimilarityRatio("abcd", "abcdgh"))

	for i := 0; i < 25; i++ {
		match, _ := m.Match(&models.StagingProduct{Name: "abcd"})
		require.NotNil(t, match)
		assert.Equal(t, "p-ef", match.ProductID, "kleinerer Schlüssel muss gewinnen")
	}
}

func TestMatcherUnmatchableRecord(t *testing.T) {
	m := NewMatcher(0.80, zap.NewNop())
	m.Seed("p1", "Magerquark", "ja!", "")

	rec := &models.StagingProduct{Name: "12345"}
	match, ratio := m.Match(rec)
	assert.Nil(t, match)
	assert.Equal(t, 0.0, ratio)

	// Aufnahme darf den Index nicht mit leeren Schlüsseln verschmutzen
	before := m.Size()
	m.Admit("p2", rec)
	assert.Equal(t, before, m.Size())
}

func TestMatcherAdmissionOrder(t *testing.T) {
	// Zwei Beinahe-Duplikate in einem Lauf: der zweite muss gegen den ersten
	// matchen, obwohl der Katalog zu Beginn leer war.
	m := NewMatcher(0.80, zap.NewNop())

	first := &models.StagingProduct{Name: "Skyr Natur", Brand: "Arla"}
	match, _ := m.Match(first)
	require.Nil(t, match)
	m.Admit("p1", first)

	second := &models.StagingProduct{Name: "Skyr Natur 450g", Brand: "Arla"}
	match, _ = m.Match(second)
	require.NotNil(t, match)
	assert.Equal(t, "p1", match.ProductID)
}

func TestMatcherCuratedSurvivesCrowdDuplicate(t *testing.T) {
	// Kuratiertes Produkt im Katalog, Crowd-Record mit anderer Schreibweise
	// und fremdem Barcode darf keine zweite Zeile erzeugen.
	m := NewMatcher(0.80, zap.NewNop())
	m.Seed("curated-1", "ja! Magerquark", "", "")

	match, _ := m.Match(&models.StagingProduct{
		Name:  "Magerquark",
		Brand: "ja!",
		EAN:   "4009",
	})
	require.NotNil(t, match)
	assert.Equal(t, "curated-1", match.ProductID)
	assert.Equal(t, models.MatchFuzzyName, match.Method)
}
