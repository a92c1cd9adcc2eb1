package models

import (
	"time"
)

// ProductAvailability hält fest, welche Supermarktketten ein Produkt führen.
type ProductAvailability struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProductID string  `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:uq_product_store"`
	Product   Product `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	StoreChain  string `json:"store_chain" gorm:"size:100;not null;uniqueIndex:uq_product_store"`
	IsAvailable bool   `json:"is_available" gorm:"default:true"`
}

// TableName gibt explizit den Tabellennamen an.
func (ProductAvailability) TableName() string {
	return "product_availability"
}
