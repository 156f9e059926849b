package models

import (
	"encoding/json"
	"time"
)

// Tipe order
const (
	OrderTypeDineIn  = "DINE_IN"
	OrderTypeTakeOut = "TAKE_OUT"
)

// Status order
const (
	OrderStatusQueuing   = "QUEUING"
	OrderStatusServed    = "SERVED"
	OrderStatusCancelled = "CANCELLED"
)

// Order -> satu transaksi penjualan. Items disimpan sebagai snapshot JSON yang
// denormalized: nama/harga produk, size, flavor dan add-on dibekukan pada saat
// commit, sehingga edit katalog di kemudian hari tidak mengubah riwayat order.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RefNumber   string    `gorm:"type:varchar(30);uniqueIndex" json:"ref_number"`
	OrderType   string    `gorm:"type:varchar(20);not null;default:'DINE_IN'" json:"order_type"`
	OrderStatus string    `gorm:"type:varchar(20);not null;default:'QUEUING'" json:"order_status"`
	Total       float64   `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Paid        float64   `gorm:"type:decimal(12,2);not null;default:0" json:"paid"`
	Change      float64   `gorm:"type:decimal(12,2);not null;default:0" json:"change"`
	ItemsJSON   string    `gorm:"type:text;not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// OrderItemSnapshot -> satu baris item di dalam snapshot order
type OrderItemSnapshot struct {
	ProductID   uint                 `json:"product_id"`
	ProductName string               `json:"product_name"`
	FlavorID    uint                 `json:"flavor_id,omitempty"`
	FlavorName  string               `json:"flavor_name,omitempty"`
	SizeID      uint                 `json:"size_id"`
	SizeName    string               `json:"size_name"`
	SizePrice   float64              `json:"size_price"`
	Quantity    int                  `json:"quantity"`
	Subtotal    float64              `json:"subtotal"`
	Addons      []OrderAddonSnapshot `json:"addons,omitempty"`
}

type OrderAddonSnapshot struct {
	AddonID  uint    `json:"addon_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Items membaca snapshot dari kolom JSON
func (o *Order) Items() ([]OrderItemSnapshot, error) {
	var items []OrderItemSnapshot
	if o.ItemsJSON == "" {
		return items, nil
	}
	err := json.Unmarshal([]byte(o.ItemsJSON), &items)
	return items, err
}

// SetItems membekukan snapshot ke kolom JSON
func (o *Order) SetItems(items []OrderItemSnapshot) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.ItemsJSON = string(data)
	return nil
}
