package off

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
	"github.com/StephanBK/sloth/services"
)

// germanyTags markieren Produkte, die auf dem deutschen Markt verkauft werden.
var germanyTags = map[string]bool{
	"en:germany":     true,
	"de:deutschland": true,
	"en:de":          true,
	"de:germany":     true,
}

// Plausible EAN-Längen (EAN-8 bis EAN-13).
const (
	minBarcodeLen = 8
	maxBarcodeLen = 13
)

// Sanity-Grenzen für Nährwerte pro 100g.
const (
	maxKcalPer100g    = 9000
	maxProteinPer100g = 100
)

// FilterStats sind die Zähler eines Filterlaufs.
type FilterStats struct {
	TotalScanned  int `json:"total_scanned"`
	GermanFound   int `json:"german_found"`
	PassedQuality int `json:"passed_quality"`
	SkippedByCat  int `json:"skipped_by_category"`
	ParseErrors   int `json:"parse_errors"`
}

// Filter ist die Streaming-Filterstufe über den rohen OFF-Dump: liest die
// gzip-JSONL-Datei Zeile für Zeile (nie den ganzen Datensatz), behält nur
// deutsche Produkte, wendet das Quality-Gate an und schreibt transformierte
// Records in die Staging-Datei. Speicherbedarf ist durch einen Record plus
// Schreibpuffer begrenzt, nicht durch die Dump-Größe.
type Filter struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFilter erstellt eine neue Filterstufe.
func NewFilter(cfg *config.Config, logger *zap.Logger) *Filter {
	return &Filter{Config: cfg, Logger: logger}
}

// Run führt den Filterlauf aus. Defekte Einzelzeilen werden gezählt und
// übersprungen; nur systemische Fehler (Datei fehlt, Schreibfehler) brechen ab.
func (f *Filter) Run(ctx context.Context) (*FilterStats, error) {
	in, err := os.Open(f.Config.RawDumpFile)
	if err != nil {
		return nil, fmt.Errorf("open raw dump: %w", err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(filepath.Dir(f.Config.StagingFile), 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	out, err := os.Create(f.Config.StagingFile)
	if err != nil {
		return nil, fmt.Errorf("create staging file: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)

	scanner := bufio.NewScanner(gz)
	// Einzelne OFF-Zeilen können mehrere MB groß sein
	scanner.Buffer(make([]byte, 1<<20), 64<<20)

	stats := &FilterStats{}
	log := f.Logger

	for scanner.Scan() {
		if stats.TotalScanned%250000 == 0 && stats.TotalScanned > 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			log.Info("Filter läuft",
				zap.Int("scanned", stats.TotalScanned),
				zap.Int("german", stats.GermanFound),
				zap.Int("passed", stats.PassedQuality))
		}
		stats.TotalScanned++

		var raw RawProduct
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			stats.ParseErrors++
			continue
		}

		if !isGermanProduct(&raw) {
			continue
		}
		stats.GermanFound++

		if !passesQualityGate(&raw, f.Config.MinCompleteness) {
			continue
		}

		rec := transform(&raw)
		if rec.Category == services.CategorySkip || rec.Category == services.CategoryOther {
			stats.SkippedByCat++
			continue
		}

		if err := enc.Encode(rec); err != nil {
			return stats, fmt.Errorf("write staging record: %w", err)
		}
		stats.PassedQuality++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read raw dump: %w", err)
	}
	if err := w.Flush(); err != nil {
		return stats, fmt.Errorf("flush staging file: %w", err)
	}

	log.Info("Filterlauf abgeschlossen",
		zap.Int("total_scanned", stats.TotalScanned),
		zap.Int("german_found", stats.GermanFound),
		zap.Int("passed_quality", stats.PassedQuality),
		zap.Int("skipped_by_category", stats.SkippedByCat),
		zap.Int("parse_errors", stats.ParseErrors))
	return stats, nil
}

// isGermanProduct prüft die countries_tags auf Deutschland-Marker.
func isGermanProduct(raw *RawProduct) bool {
	for _, t := range raw.CountriesTags {
		if germanyTags[strings.ToLower(t)] {
			return true
		}
	}
	return false
}

// passesQualityGate prüft die Mindestanforderungen an einen Roh-Record:
// Name, plausibler Barcode, Energie und Protein vorhanden und in sinnvollen
// Grenzen, Mindest-Completeness.
func passesQualityGate(raw *RawProduct, minCompleteness float64) bool {
	name := displayName(raw)
	if len(strings.TrimSpace(name)) < 2 {
		return false
	}

	code := strings.TrimSpace(raw.Code)
	if len(code) < minBarcodeLen || len(code) > maxBarcodeLen {
		return false
	}

	kcal := raw.Nutriments.EnergyKcal100g
	protein := raw.Nutriments.Proteins100g
	if !kcal.Valid || !protein.Valid {
		return false
	}
	if kcal.Value < 0 || kcal.Value > maxKcalPer100g {
		return false
	}
	if protein.Value < 0 || protein.Value > maxProteinPer100g {
		return false
	}

	if !raw.Completeness.Valid || raw.Completeness.Value < minCompleteness {
		return false
	}
	return true
}

// displayName bevorzugt den deutschen Produktnamen.
func displayName(raw *RawProduct) string {
	if n := strings.TrimSpace(raw.ProductNameDE); n != "" {
		return n
	}
	return strings.TrimSpace(raw.ProductName)
}

// transform wandelt einen Roh-Record in die Staging-Form um.
func transform(raw *RawProduct) *models.StagingProduct {
	completeness := 0.0
	if raw.Completeness.Valid {
		completeness = raw.Completeness.Value
	}

	brand := ""
	if b := strings.TrimSpace(raw.Brands); b != "" {
		// Bei mehreren kommaseparierten Marken zählt die erste
		brand = strings.TrimSpace(strings.SplitN(b, ",", 2)[0])
	}

	code := strings.TrimSpace(raw.Code)

	return &models.StagingProduct{
		Name:            displayName(raw),
		Brand:           brand,
		EAN:             code,
		Category:        services.MapOFFCategory(raw.CategoriesTags),
		CaloriesPer100g: raw.Nutriments.EnergyKcal100g.Ptr(),
		ProteinPer100g:  raw.Nutriments.Proteins100g.Ptr(),
		CarbsPer100g:    raw.Nutriments.Carbs100g.Ptr(),
		FatPer100g:      raw.Nutriments.Fat100g.Ptr(),
		FiberPer100g:    raw.Nutriments.Fiber100g.Ptr(),
		SugarPer100g:    raw.Nutriments.Sugars100g.Ptr(),
		SaltPer100g:     raw.Nutriments.Salt100g.Ptr(),
		NutriscoreGrade: raw.Nutriscore,
		ImageURL:        raw.ImageURL,
		ImageThumbURL:   raw.ImageSmallURL,
		OFFID:           code,
		Completeness:    completeness,
		DataConfidence:  services.ComputeConfidence(models.SourceOFF, completeness),
		Stores:          raw.Stores,
		Source:          models.SourceOFF,
	}
}
