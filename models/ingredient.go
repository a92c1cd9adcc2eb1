package models

// Ingredient ist der minimale Ausschnitt der Mahlzeitenplan-Zutat, den der
// Verifier für die Orphan-Prüfung braucht. Die volle Tabelle gehört dem
// Meal-Plan-Teil des Systems und wird hier nicht migriert.
type Ingredient struct {
	ID        string  `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name      string  `json:"name" gorm:"size:255"`
	ProductID *string `json:"product_id,omitempty" gorm:"type:varchar(36);index"`
}

// TableName gibt explizit den Tabellennamen an.
func (Ingredient) TableName() string {
	return "ingredients"
}
