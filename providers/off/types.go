package off

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// FlexFloat toleriert die uneinheitlichen Zahlformate im OFF-Dump: Nährwerte
// und completeness kommen dort mal als Zahl, mal als String, mal als null.
type FlexFloat struct {
	Value float64
	Valid bool
}

// UnmarshalJSON akzeptiert number, string und null.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	f.Valid = false
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f.Value, f.Valid = v, true
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// MarshalJSON gibt die Zahl aus, null wenn ungültig.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr liefert den Wert auf zwei Stellen gerundet als Pointer, nil wenn ungültig.
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := math.Round(f.Value*100) / 100
	return &v
}

// Nutriments enthält die Nährwertfelder pro 100g aus dem OFF-Dump.
type Nutriments struct {
	EnergyKcal100g FlexFloat `json:"energy-kcal_100g"`
	Proteins100g   FlexFloat `json:"proteins_100g"`
	Carbs100g      FlexFloat `json:"carbohydrates_100g"`
	Fat100g        FlexFloat `json:"fat_100g"`
	Fiber100g      FlexFloat `json:"fiber_100g"`
	Sugars100g     FlexFloat `json:"sugars_100g"`
	Salt100g       FlexFloat `json:"salt_100g"`
}

// RawProduct ist eine Zeile des OFF-JSONL-Dumps, reduziert auf die Felder,
// die die Pipeline braucht.
type RawProduct struct {
	Code           string     `json:"code"`
	ProductName    string     `json:"product_name"`
	ProductNameDE  string     `json:"product_name_de"`
	Brands         string     `json:"brands"`
	CountriesTags  []string   `json:"countries_tags"`
	CategoriesTags []string   `json:"categories_tags"`
	Nutriments     Nutriments `json:"nutriments"`
	Completeness   FlexFloat  `json:"completeness"`
	Nutriscore     string     `json:"nutriscore_grade"`
	ImageURL       string     `json:"image_url"`
	ImageSmallURL  string     `json:"image_small_url"`
	Stores         string     `json:"stores"`
}
