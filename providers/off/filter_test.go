package off

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
	"github.com/StephanBK/sloth/services"
)

func validRaw() *RawProduct {
	return &RawProduct{
		Code:           "4388860540116",
		ProductName:    "Low-fat quark",
		ProductNameDE:  "Magerquark",
		Brands:         "ja!",
		CountriesTags:  []string{"en:germany"},
		CategoriesTags: []string{"en:quark"},
		Nutriments: Nutriments{
			EnergyKcal100g: FlexFloat{Value: 67, Valid: true},
			Proteins100g:   FlexFloat{Value: 12, Valid: true},
		},
		Completeness: FlexFloat{Value: 0.7, Valid: true},
		Stores:       "REWE",
	}
}

func TestIsGermanProduct(t *testing.T) {
	raw := validRaw()
	assert.True(t, isGermanProduct(raw))

	raw.CountriesTags = []string{"EN:GERMANY"}
	assert.True(t, isGermanProduct(raw), "tag matching must ignore case")

	raw.CountriesTags = []string{"en:france", "en:austria"}
	assert.False(t, isGermanProduct(raw))

	raw.CountriesTags = nil
	assert.False(t, isGermanProduct(raw))
}

func TestPassesQualityGate(t *testing.T) {
	t.Run("valid record passes", func(t *testing.T) {
		assert.True(t, passesQualityGate(validRaw(), 0.5))
	})

	t.Run("rejects missing or short name", func(t *testing.T) {
		raw := validRaw()
		raw.ProductNameDE = ""
		raw.ProductName = "x"
		assert.False(t, passesQualityGate(raw, 0.5))
	})

	t.Run("rejects implausible barcodes", func(t *testing.T) {
		raw := validRaw()
		raw.Code = "1234567" // zu kurz für EAN-8
		assert.False(t, passesQualityGate(raw, 0.5))
		raw.Code = "12345678901234" // länger als EAN-13
		assert.False(t, passesQualityGate(raw, 0.5))
	})

	t.Run("rejects missing energy or protein", func(t *testing.T) {
		raw := validRaw()
		raw.Nutriments.EnergyKcal100g = FlexFloat{}
		assert.False(t, passesQualityGate(raw, 0.5))

		raw = validRaw()
		raw.Nutriments.Proteins100g = FlexFloat{}
		assert.False(t, passesQualityGate(raw, 0.5))
	})

	t.Run("rejects out-of-range nutrition values", func(t *testing.T) {
		raw := validRaw()
		raw.Nutriments.EnergyKcal100g.Value = 9001
		assert.False(t, passesQualityGate(raw, 0.5))

		raw = validRaw()
		raw.Nutriments.Proteins100g.Value = 101
		assert.False(t, passesQualityGate(raw, 0.5))

		raw = validRaw()
		raw.Nutriments.EnergyKcal100g.Value = -1
		assert.False(t, passesQualityGate(raw, 0.5))
	})

	t.Run("rejects low completeness", func(t *testing.T) {
		raw := validRaw()
		raw.Completeness.Value = 0.4
		assert.False(t, passesQualityGate(raw, 0.5))

		raw.Completeness = FlexFloat{}
		assert.False(t, passesQualityGate(raw, 0.5))
	})
}

func TestTransform(t *testing.T) {
	t.Run("prefers german name", func(t *testing.T) {
		rec := transform(validRaw())
		assert.Equal(t, "Magerquark", rec.Name)
	})

	t.Run("falls back to generic name", func(t *testing.T) {
		raw := validRaw()
		raw.ProductNameDE = ""
		rec := transform(raw)
		assert.Equal(t, "Low-fat quark", rec.Name)
	})

	t.Run("takes first of comma-separated brands", func(t *testing.T) {
		raw := validRaw()
		raw.Brands = "ja!, REWE"
		rec := transform(raw)
		assert.Equal(t, "ja!", rec.Brand)
	})

	t.Run("maps category and confidence", func(t *testing.T) {
		rec := transform(validRaw())
		assert.Equal(t, services.CategoryDairy, rec.Category)
		assert.Equal(t, 0.5, rec.DataConfidence) // completeness 0.7 -> mittlere Stufe
		assert.Equal(t, models.SourceOFF, rec.Source)
	})

	t.Run("barcode doubles as off id", func(t *testing.T) {
		rec := transform(validRaw())
		require.NotEmpty(t, rec.EAN)
		assert.Equal(t, rec.EAN, rec.OFFID)
		assert.Equal(t, rec.OFFID, rec.ExternalID())
	})
}

func TestFilterRun(t *testing.T) {
	dir := t.TempDir()
	dumpPath := filepath.Join(dir, "dump.jsonl.gz")

	german := validRaw()
	french := validRaw()
	french.Code = "3017620422003"
	french.CountriesTags = []string{"en:france"}
	sweets := validRaw()
	sweets.Code = "4000417025005"
	sweets.CategoriesTags = []string{"en:chocolates"}

	f, err := os.Create(dumpPath)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	w := bufio.NewWriter(gz)
	enc := json.NewEncoder(w)
	require.NoError(t, enc.Encode(german))
	require.NoError(t, enc.Encode(french))
	require.NoError(t, enc.Encode(sweets))
	_, err = w.WriteString("kaputte zeile\n")
	require.NoError(t, err)
	require.NoError(t, w.Flush())
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	cfg := &config.Config{
		RawDumpFile:     dumpPath,
		StagingFile:     filepath.Join(dir, "staging.jsonl"),
		MinCompleteness: 0.5,
	}

	stats, err := NewFilter(cfg, zap.NewNop()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalScanned)
	assert.Equal(t, 1, stats.PassedQuality)
	assert.Equal(t, 1, stats.SkippedByCat)
	assert.Equal(t, 1, stats.ParseErrors)

	data, err := os.ReadFile(cfg.StagingFile)
	require.NoError(t, err)
	var rec models.StagingProduct
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "Magerquark", rec.Name)
	assert.Equal(t, "4388860540116", rec.OFFID)
}
