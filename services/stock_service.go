package services

import (
	"fmt"

	"github.com/yeremiapane/cafe-pos/events"
	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

// DeductionEntry -> permintaan potong stok untuk satu item
type DeductionEntry struct {
	ItemType string  `json:"item_type"`
	ItemID   uint    `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// Shortfall -> kekurangan stok yang terjadi saat deduction di-clamp ke nol
type Shortfall struct {
	ItemType  string  `json:"item_type"`
	ItemID    uint    `json:"item_id"`
	Requested float64 `json:"requested"`
	Available float64 `json:"available"`
	Missing   float64 `json:"missing"`
}

// StockService adalah ledger stok. Invarian utamanya: quantity tidak pernah
// negatif. Secara default engine memakai kebijakan AllowOversell: deduction
// yang melebihi stok di-clamp ke nol, order tetap jalan, dan kekurangannya
// dilaporkan sebagai event stock_shortfall (kebijakan eksplisit, bukan efek
// samping diam-diam). Dengan AllowOversell=false, commit ditolak sebelum ada
// perubahan apa pun.
type StockService struct {
	store             storage.Store
	hub               *events.Hub
	LowStockThreshold float64
	AllowOversell     bool
}

func NewStockService(store storage.Store, hub *events.Hub) *StockService {
	return &StockService{
		store:             store,
		hub:               hub,
		LowStockThreshold: 10,
		AllowOversell:     true,
	}
}

type deductionKey struct {
	itemType string
	itemID   uint
}

// mergeEntries menjumlahkan entri per (item_type, item_id): satu cart bisa
// menyentuh ingredient yang sama lewat beberapa line item.
func mergeEntries(entries []DeductionEntry) map[deductionKey]float64 {
	merged := make(map[deductionKey]float64)
	for _, e := range entries {
		merged[deductionKey{e.ItemType, e.ItemID}] += e.Quantity
	}
	return merged
}

// Deduct memotong stok terhadap store utama (di luar unit of work)
func (s *StockService) Deduct(entries []DeductionEntry) ([]Shortfall, error) {
	return s.DeductIn(s.store, entries)
}

// DeductIn memotong stok terhadap store yang diberikan, sehingga commit order
// bisa menjalankannya di dalam unit of work yang sama.
func (s *StockService) DeductIn(st storage.Store, entries []DeductionEntry) ([]Shortfall, error) {
	merged := mergeEntries(entries)

	if !s.AllowOversell {
		// Pre-check sebelum ada tulisan sama sekali
		for key, used := range merged {
			current := s.currentQuantity(st, key)
			if current < used {
				return nil, fmt.Errorf("%w: %s %d has %.2f, need %.2f",
					ErrInsufficientStock, key.itemType, key.itemID, current, used)
			}
		}
	}

	var shortfalls []Shortfall
	for key, used := range merged {
		rec, err := st.StockFor(key.itemType, key.itemID)
		if err == storage.ErrNotFound {
			rec = &models.StockRecord{ItemType: key.itemType, ItemID: key.itemID}
		} else if err != nil {
			return nil, err
		}

		newQty := rec.Quantity - used
		if newQty < 0 {
			shortfalls = append(shortfalls, Shortfall{
				ItemType:  key.itemType,
				ItemID:    key.itemID,
				Requested: used,
				Available: rec.Quantity,
				Missing:   -newQty,
			})
			newQty = 0 // clamp, jangan pernah di bawah nol
		}
		rec.Quantity = newQty
		if err := st.SaveStock(rec); err != nil {
			return nil, err
		}

		if newQty <= s.LowStockThreshold {
			utils.InfoLogger.Printf("Low stock: %s %d at %.2f (threshold %.2f)",
				key.itemType, key.itemID, newQty, s.LowStockThreshold)
			s.hub.Broadcast(events.EventStockLow, rec)
		}
	}

	for _, sf := range shortfalls {
		utils.ErrorLogger.Printf("Stock shortfall: %s %d short by %.2f (requested %.2f, available %.2f)",
			sf.ItemType, sf.ItemID, sf.Missing, sf.Requested, sf.Available)
		s.hub.Broadcast(events.EventStockShortfall, sf)
	}

	return shortfalls, nil
}

// SetQuantity -> override administratif tanpa syarat (stock adjustment UI)
func (s *StockService) SetQuantity(itemType string, itemID uint, quantity float64) (*models.StockRecord, error) {
	if !models.ValidItemType(itemType) {
		return nil, ErrInvalidItemType
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative")
	}
	rec, err := s.store.StockFor(itemType, itemID)
	if err == storage.ErrNotFound {
		rec = &models.StockRecord{ItemType: itemType, ItemID: itemID}
	} else if err != nil {
		return nil, err
	}
	rec.Quantity = quantity
	if err := s.store.SaveStock(rec); err != nil {
		return nil, err
	}
	if quantity <= s.LowStockThreshold {
		s.hub.Broadcast(events.EventStockLow, rec)
	}
	return rec, nil
}

// Get -> nil jika record tidak ada (bukan error)
func (s *StockService) Get(itemType string, itemID uint) (*models.StockRecord, error) {
	rec, err := s.store.StockFor(itemType, itemID)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	return rec, err
}

func (s *StockService) List() ([]models.StockRecord, error) {
	return s.store.ListStock()
}

func (s *StockService) currentQuantity(st storage.Store, key deductionKey) float64 {
	rec, err := st.StockFor(key.itemType, key.itemID)
	if err != nil {
		return 0
	}
	return rec.Quantity
}
