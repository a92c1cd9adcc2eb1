package services

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/StephanBK/sloth/models"
)

// DuplicateEAN beschreibt einen Barcode, der mehr als einer Katalogzeile
// zugeordnet ist.
type DuplicateEAN struct {
	EAN   string `json:"ean"`
	Count int    `json:"count"`
}

// CategoryCount ist ein Eintrag der Kategorienverteilung.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// VerificationReport fasst die Integritätsprüfung des Katalogs zusammen.
// Der Report stellt nur fest, er repariert nichts.
type VerificationReport struct {
	TotalProducts   int64            `json:"total_products"`
	BySource        map[string]int64 `json:"by_source"`
	Curated         int64            `json:"curated"`
	WithCalories    int64            `json:"with_calories"`
	DuplicateEANs   []DuplicateEAN   `json:"duplicate_eans"`
	LinksByMethod   map[string]int64 `json:"links_by_method"`
	OrphanedIngreds int64            `json:"orphaned_ingredients"`
	CalorieOutliers int64            `json:"calorie_outliers"`
	ZeroCalorie     int64            `json:"zero_calorie"`
	Categories      []CategoryCount  `json:"categories"`
}

// Healthy meldet, ob der Katalog frei von harten Befunden ist. Ausreißer und
// Nullkalorien-Produkte sind Hinweise, keine Fehler.
func (r *VerificationReport) Healthy() bool {
	return len(r.DuplicateEANs) == 0 && r.OrphanedIngreds == 0
}

// Verifier prüft den Katalog nach einem Importlauf auf Konsistenz.
type Verifier struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// NewVerifier erstellt einen Verifier.
func NewVerifier(db *gorm.DB, logger *zap.Logger) *Verifier {
	return &Verifier{DB: db, Logger: logger}
}

// Run führt alle Prüfungen aus und liefert den Report.
func (v *Verifier) Run() (*VerificationReport, error) {
	report := &VerificationReport{
		BySource:      make(map[string]int64),
		LinksByMethod: make(map[string]int64),
	}

	if err := v.DB.Model(&models.Product{}).Count(&report.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	type sourceRow struct {
		DataSource string
		N          int64
	}
	var sources []sourceRow
	if err := v.DB.Model(&models.Product{}).
		Select("data_source, count(*) as n").
		Group("data_source").
		Scan(&sources).Error; err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	for _, row := range sources {
		report.BySource[row.DataSource] = row.N
	}

	if err := v.DB.Model(&models.Product{}).
		Where("is_curated = ?", true).
		Count(&report.Curated).Error; err != nil {
		return nil, fmt.Errorf("count curated: %w", err)
	}

	if err := v.DB.Model(&models.Product{}).
		Where("calories_per_100g IS NOT NULL").
		Count(&report.WithCalories).Error; err != nil {
		return nil, fmt.Errorf("count with calories: %w", err)
	}

	type dupRow struct {
		EAN string
		N   int
	}
	var dups []dupRow
	if err := v.DB.Model(&models.Product{}).
		Select("ean, count(*) as n").
		Where("ean IS NOT NULL").
		Group("ean").
		Having("count(*) > 1").
		Scan(&dups).Error; err != nil {
		return nil, fmt.Errorf("find duplicate eans: %w", err)
	}
	for _, d := range dups {
		report.DuplicateEANs = append(report.DuplicateEANs, DuplicateEAN{EAN: d.EAN, Count: d.N})
	}

	type methodRow struct {
		MatchMethod string
		N           int64
	}
	var methods []methodRow
	if err := v.DB.Model(&models.ProductSourceLink{}).
		Select("match_method, count(*) as n").
		Group("match_method").
		Scan(&methods).Error; err != nil {
		return nil, fmt.Errorf("count links by method: %w", err)
	}
	for _, row := range methods {
		report.LinksByMethod[row.MatchMethod] = row.N
	}

	// Die ingredients-Tabelle gehört dem Meal-Plan-Teil des Systems und fehlt
	// auf frischen Katalog-Datenbanken
	if v.DB.Migrator().HasTable(&models.Ingredient{}) {
		if err := v.DB.Model(&models.Ingredient{}).
			Where("product_id IS NOT NULL AND product_id NOT IN (?)",
				v.DB.Model(&models.Product{}).Select("id")).
			Count(&report.OrphanedIngreds).Error; err != nil {
			return nil, fmt.Errorf("count orphaned ingredients: %w", err)
		}
	}

	if err := v.DB.Model(&models.Product{}).
		Where("calories_per_100g > ?", 1000).
		Count(&report.CalorieOutliers).Error; err != nil {
		return nil, fmt.Errorf("count calorie outliers: %w", err)
	}
	if err := v.DB.Model(&models.Product{}).
		Where("calories_per_100g = ?", 0).
		Count(&report.ZeroCalorie).Error; err != nil {
		return nil, fmt.Errorf("count zero calorie: %w", err)
	}

	if err := v.DB.Model(&models.Product{}).
		Select("category, count(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&report.Categories).Error; err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}

	v.Logger.Info("Katalog geprüft",
		zap.Int64("total", report.TotalProducts),
		zap.Int("duplicate_eans", len(report.DuplicateEANs)),
		zap.Int64("orphaned_ingredients", report.OrphanedIngreds),
		zap.Bool("healthy", report.Healthy()))
	return report, nil
}
