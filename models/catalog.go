package models

import "time"

// Flavor -> varian rasa yang bisa dipasang ke banyak produk (m2m)
type Flavor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Material -> bahan kemasan/peralatan yang dikonsumsi per unit (gelas, sedotan, dll)
type Material struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Unit      string    `gorm:"type:varchar(20);default:'pcs'" json:"unit"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Ingredient -> bahan baku dengan harga beli per lot.
// PricePerUnit selalu diturunkan dari PricePerPurchase / UnitsPerPurchase,
// tidak pernah di-set langsung oleh caller.
type Ingredient struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	Unit             string    `gorm:"type:varchar(20);default:'g'" json:"unit"`
	PricePerPurchase float64   `gorm:"type:decimal(12,2);not null;default:0" json:"price_per_purchase"`
	UnitsPerPurchase float64   `gorm:"type:decimal(12,2);not null;default:1" json:"units_per_purchase"`
	PricePerUnit     float64   `gorm:"type:decimal(12,4);not null;default:0" json:"price_per_unit"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

// RecalcPricePerUnit menghitung ulang harga per unit dari harga lot
func (i *Ingredient) RecalcPricePerUnit() {
	if i.UnitsPerPurchase > 0 {
		i.PricePerUnit = i.PricePerPurchase / i.UnitsPerPurchase
	} else {
		i.PricePerUnit = 0
	}
}

// Addon -> tambahan berbayar yang dipilih per item order (extra shot, dll)
type Addon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Category  string    `gorm:"type:varchar(50)" json:"category"`
	ImageURL  string    `gorm:"type:varchar(255)" json:"image_url"`
	Sizes     []Size    `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"sizes"`
	Flavors   []Flavor  `gorm:"many2many:product_flavors" json:"flavors"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Size -> ukuran jual sebuah produk beserta resep konsumsinya per unit
type Size struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ProductID   uint             `gorm:"not null;index" json:"product_id"`
	Name        string           `gorm:"type:varchar(50);not null" json:"name"`
	Price       float64          `gorm:"type:decimal(12,2);not null;default:0" json:"price"`
	Materials   []SizeMaterial   `gorm:"foreignKey:SizeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"materials"`
	Ingredients []SizeIngredient `gorm:"foreignKey:SizeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"ingredients"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updated_at"`
}

// SizeMaterial -> baris resep: berapa banyak material terpakai per unit terjual
type SizeMaterial struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	SizeID     uint    `gorm:"not null;index" json:"size_id"`
	MaterialID uint    `gorm:"not null;index" json:"material_id"`
	Qty        float64 `gorm:"type:decimal(12,2);not null" json:"qty"`
}

// SizeIngredient -> baris resep: berapa banyak bahan baku terpakai per unit terjual
type SizeIngredient struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	SizeID       uint    `gorm:"not null;index" json:"size_id"`
	IngredientID uint    `gorm:"not null;index" json:"ingredient_id"`
	Qty          float64 `gorm:"type:decimal(12,2);not null" json:"qty"`
}
