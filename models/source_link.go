package models

import (
	"time"

	"gorm.io/datatypes"
)

// Match-Methoden für ProductSourceLink.
const (
	MatchBarcodeExact = "barcode_exact"
	MatchFuzzyName    = "fuzzy_name"
)

// ProductSourceLink hält fest, dass ein Katalogprodukt auch in einer anderen
// Quelle gesehen wurde, ohne dort eine neue Zeile zu erzeugen. Wird nur zur
// Dedup-Zeit angelegt und danach nicht mehr verändert.
type ProductSourceLink struct {
	ID string `json:"id" gorm:"type:varchar(36);primaryKey"`

	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null;index"`
	Product   Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	Source     string `json:"source" gorm:"size:50;not null"`
	ExternalID string `json:"external_id" gorm:"size:100;not null"`

	// Roh-Snapshot des Quell-Records (serialisiert), optional
	ExternalData datatypes.JSON `json:"external_data,omitempty" gorm:"type:jsonb"`

	MatchedAt       time.Time `json:"matched_at" gorm:"not null"`
	MatchMethod     string    `json:"match_method" gorm:"size:50"`
	MatchConfidence float64   `json:"match_confidence"`
}

// TableName gibt explizit den Tabellennamen an.
func (ProductSourceLink) TableName() string {
	return "product_source_links"
}
