package models

// StagingProduct ist die gemeinsame Zwischenform, die jeder Quell-Adapter
// erzeugt. Sie existiert nur innerhalb eines Pipeline-Laufs (bzw. als Zeile
// in der Staging-JSONL-Datei) und wird nie in die Datenbank migriert.
type StagingProduct struct {
	Name  string `json:"name"`
	Brand string `json:"brand,omitempty"`
	EAN   string `json:"ean,omitempty"`

	Category string `json:"category"`

	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g"`
	SugarPer100g    *float64 `json:"sugar_per_100g"`
	SaltPer100g     *float64 `json:"salt_per_100g"`

	NutriscoreGrade string `json:"nutriscore_grade,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	ImageThumbURL   string `json:"image_thumb_url,omitempty"`

	OFFID   string `json:"off_id,omitempty"`
	BLSCode string `json:"bls_code,omitempty"`

	// Selbstgemeldete Vollständigkeit der Quelle (nur OFF)
	Completeness   float64 `json:"completeness"`
	DataConfidence float64 `json:"data_confidence"`

	// Freitext-Liste von Läden, kommasepariert (z.B. "REWE, Edeka")
	Stores string `json:"stores,omitempty"`

	// Herkunft, vom Adapter gesetzt; nicht Teil der Staging-Datei
	Source string `json:"-"`
}

// ExternalID liefert den quellspezifischen Identifier des Staging-Records.
func (s *StagingProduct) ExternalID() string {
	switch s.Source {
	case SourceOFF:
		return s.OFFID
	case SourceBLS:
		return s.BLSCode
	}
	return ""
}
