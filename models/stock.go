package models

import "time"

// Jenis item yang ikut perhitungan stok
const (
	ItemTypeAddon      = "addon"
	ItemTypeIngredient = "ingredient"
	ItemTypeMaterial   = "material"
)

// StockRecord -> jumlah stok saat ini untuk satu entitas katalog.
// Tepat satu record per (item_type, item_id); quantity tidak pernah negatif.
type StockRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemType  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_stock_item" json:"item_type"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_stock_item" json:"item_id"`
	Quantity  float64   `gorm:"type:decimal(12,2);not null;default:0" json:"quantity"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func ValidItemType(t string) bool {
	switch t {
	case ItemTypeAddon, ItemTypeIngredient, ItemTypeMaterial:
		return true
	}
	return false
}
