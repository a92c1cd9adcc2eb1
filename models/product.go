package models

import (
	"time"
)

// Datenquellen für Produkte im Katalog.
const (
	SourceManual = "manual"
	SourceOFF    = "off"
	SourceBLS    = "bls"
)

// Product repräsentiert ein Lebensmittelprodukt im Katalog
// (z.B. "REWE Beste Wahl High Protein Quarkcreme").
type Product struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name  string  `json:"name" gorm:"size:255;not null"`
	Brand *string `json:"brand,omitempty" gorm:"size:255"`
	// EAN-Barcode. Eindeutig, sofern vorhanden — Duplikate sind ein Befund des Verifiers.
	EAN *string `json:"ean,omitempty" gorm:"size:13;index"`

	Category string `json:"category" gorm:"size:100;not null;index"`

	PackageSize *float64 `json:"package_size,omitempty"`
	Unit        *string  `json:"unit,omitempty" gorm:"size:50"` // g, ml, piece

	// Nährwerte pro 100g/100ml, unabhängig voneinander optional
	CaloriesPer100g *float64 `json:"calories_per_100g,omitempty" gorm:"column:calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g,omitempty" gorm:"column:protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g,omitempty" gorm:"column:carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g,omitempty" gorm:"column:fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g,omitempty" gorm:"column:fiber_per_100g"`
	SugarPer100g    *float64 `json:"sugar_per_100g,omitempty" gorm:"column:sugar_per_100g"`
	SaltPer100g     *float64 `json:"salt_per_100g,omitempty" gorm:"column:salt_per_100g"`

	// Herkunft und Vertrauen
	DataSource     string   `json:"data_source" gorm:"size:50;not null;default:'manual';index"`
	DataConfidence *float64 `json:"data_confidence,omitempty"`
	IsCurated      bool     `json:"is_curated" gorm:"not null;default:false"`

	// Quellen-spezifische Identifier
	OFFID   *string `json:"off_id,omitempty" gorm:"column:off_id;size:50;index"`
	BLSCode *string `json:"bls_code,omitempty" gorm:"column:bls_code;size:20;index"`

	// Anzeige-/Qualitätsfelder
	NutriscoreGrade *string `json:"nutriscore_grade,omitempty" gorm:"size:1"`
	ImageURL        *string `json:"image_url,omitempty" gorm:"size:500"`
	ImageThumbURL   *string `json:"image_thumb_url,omitempty" gorm:"size:500"`

	Notes *string `json:"notes,omitempty" gorm:"type:text"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
}

// TableName gibt explizit den Tabellennamen an.
func (Product) TableName() string {
	return "products"
}
