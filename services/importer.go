package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/StephanBK/sloth/config"
	"github.com/StephanBK/sloth/models"
	"github.com/StephanBK/sloth/providers"
)

// knownStoreChains sind die Ketten, die aus dem Freitext-Stores-Feld in
// ProductAvailability übernommen werden. Alles andere (Einzelhändler,
// Tippfehler, Auslandsketten) wird ignoriert.
var knownStoreChains = map[string]string{
	"rewe":     "REWE",
	"edeka":    "EDEKA",
	"lidl":     "LIDL",
	"aldi":     "ALDI",
	"penny":    "PENNY",
	"kaufland": "KAUFLAND",
	"netto":    "NETTO",
}

// ImportStats sind die Zähler eines Import-Laufs.
type ImportStats struct {
	Source          string `json:"source"`
	Scanned         int    `json:"scanned"`
	Admitted        int    `json:"admitted"`
	SkippedBarcode  int    `json:"skipped_barcode_match"`
	SkippedFuzzy    int    `json:"skipped_fuzzy_match"`
	LinksWritten    int    `json:"links_written"`
	DryRun          bool   `json:"dry_run"`
	DurationSeconds int    `json:"duration_seconds"`
}

// ImportService fährt die Admission-Stufe: lädt die Records einer Quelle,
// prüft jeden gegen den Dedup-Index und schreibt Neuzugänge batchweise in
// den Katalog. Duplikate erzeugen optional einen SourceLink statt einer
// neuen Produktzeile.
type ImportService struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewImportService erstellt den Import-Service.
func NewImportService(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *ImportService {
	return &ImportService{Config: cfg, DB: db, Logger: logger}
}

// Run importiert eine Quelle. Im Dry-Run-Modus wird die komplette
// Match-Entscheidung getroffen, aber nichts geschrieben.
func (s *ImportService) Run(ctx context.Context, source providers.Source, dryRun bool) (*ImportStats, error) {
	start := time.Now()
	log := s.Logger.With(zap.String("source", source.Name()), zap.Bool("dry_run", dryRun))

	records, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	matcher := NewMatcher(s.Config.MatchThreshold, s.Logger)
	if err := matcher.SeedFromCatalog(s.DB); err != nil {
		return nil, err
	}
	writer := NewCatalogWriter(s.DB, s.Config.ImportBatchSize, dryRun, s.Logger)

	stats := &ImportStats{Source: source.Name(), DryRun: dryRun}
	now := time.Now()

	for _, rec := range records {
		if stats.Scanned%10000 == 0 && stats.Scanned > 0 {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			log.Info("Import läuft",
				zap.Int("scanned", stats.Scanned),
				zap.Int("admitted", stats.Admitted))
		}
		stats.Scanned++

		match, _ := matcher.Match(rec)
		if match != nil {
			switch match.Method {
			case models.MatchBarcodeExact:
				stats.SkippedBarcode++
			default:
				stats.SkippedFuzzy++
			}
			if s.Config.EmitSourceLinks {
				writer.AddLink(buildSourceLink(rec, match, now))
			}
			continue
		}

		p := buildProduct(rec, now)
		if err := writer.Add(p); err != nil {
			return stats, err
		}
		for _, chain := range parseStoreChains(rec.Stores) {
			writer.AddAvailability(&models.ProductAvailability{
				ID:          uuid.NewString(),
				ProductID:   p.ID,
				StoreChain:  chain,
				IsAvailable: true,
			})
		}
		// Sofort in den Index, damit spätere Records dieses Laufs dagegen matchen
		matcher.Admit(p.ID, rec)
		stats.Admitted++
	}

	if err := writer.Flush(); err != nil {
		return stats, err
	}
	stats.LinksWritten = writer.LinksWritten()
	stats.DurationSeconds = int(time.Since(start).Seconds())

	log.Info("Import abgeschlossen",
		zap.Int("scanned", stats.Scanned),
		zap.Int("admitted", stats.Admitted),
		zap.Int("skipped_barcode", stats.SkippedBarcode),
		zap.Int("skipped_fuzzy", stats.SkippedFuzzy),
		zap.Int("links_written", stats.LinksWritten),
		zap.Int("duration_s", stats.DurationSeconds))
	return stats, nil
}

// buildProduct baut aus einem Staging-Record die Katalogzeile.
func buildProduct(rec *models.StagingProduct, now time.Time) *models.Product {
	name := truncateName(rec.Name, 255)

	p := &models.Product{
		ID:              uuid.NewString(),
		Name:            name,
		Brand:           optStr(rec.Brand),
		Category:        rec.Category,
		CaloriesPer100g: rec.CaloriesPer100g,
		ProteinPer100g:  rec.ProteinPer100g,
		CarbsPer100g:    rec.CarbsPer100g,
		FatPer100g:      rec.FatPer100g,
		FiberPer100g:    rec.FiberPer100g,
		SugarPer100g:    rec.SugarPer100g,
		SaltPer100g:     rec.SaltPer100g,
		DataSource:      rec.Source,
		DataConfidence:  &rec.DataConfidence,
		OFFID:           optStr(rec.OFFID),
		BLSCode:         optStr(rec.BLSCode),
		ImageURL:        optStr(rec.ImageURL),
		ImageThumbURL:   optStr(rec.ImageThumbURL),
		LastSyncedAt:    &now,
	}

	// EANs jenseits von 13 Zeichen passen nicht in die Spalte und sind
	// ohnehin keine gültigen Barcodes
	if rec.EAN != "" && len(rec.EAN) <= 13 {
		ean := rec.EAN
		p.EAN = &ean
	}
	if g := strings.ToLower(strings.TrimSpace(rec.NutriscoreGrade)); len(g) == 1 && g >= "a" && g <= "e" {
		p.NutriscoreGrade = &g
	}
	return p
}

// buildSourceLink protokolliert einen Duplikat-Treffer mit Roh-Snapshot.
func buildSourceLink(rec *models.StagingProduct, match *MatchResult, now time.Time) *models.ProductSourceLink {
	raw, _ := json.Marshal(rec)
	return &models.ProductSourceLink{
		ID:              uuid.NewString(),
		ProductID:       match.ProductID,
		Source:          rec.Source,
		ExternalID:      rec.ExternalID(),
		ExternalData:    raw,
		MatchedAt:       now,
		MatchMethod:     match.Method,
		MatchConfidence: match.Confidence,
	}
}

// parseStoreChains extrahiert bekannte Ketten aus dem Freitext-Stores-Feld.
func parseStoreChains(stores string) []string {
	if stores == "" {
		return nil
	}
	seen := make(map[string]bool)
	var chains []string
	for _, part := range strings.Split(stores, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		for prefix, chain := range knownStoreChains {
			if strings.Contains(token, prefix) && !seen[chain] {
				seen[chain] = true
				chains = append(chains, chain)
			}
		}
	}
	return chains
}

// truncateName kürzt auf maximal max Bytes, aber nie mitten in einer
// UTF-8-Sequenz — ein aufgetrennter Umlaut wäre ungültiges UTF-8 und ließe
// Postgres den ganzen Insert-Batch ablehnen.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
