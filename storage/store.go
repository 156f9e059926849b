package storage

import (
	"errors"
	"time"

	"github.com/yeremiapane/cafe-pos/models"
)

// ErrNotFound dikembalikan backend saat record tidak ada. Service layer
// menerjemahkannya menjadi hasil nil/false, bukan error ke caller.
var ErrNotFound = errors.New("record not found")

type OrderFilter string

const (
	OrderFilterAll   OrderFilter = "all"
	OrderFilterToday OrderFilter = "today"
)

// Store adalah port persistence yang dipakai semua service. Ada dua
// implementasi: GormStore (relational, transaksional) dan BoltStore
// (key-value fallback, whole-collection read/write tanpa atomicity antar step).
//
// Semua lookup by-name bersifat case-insensitive.
type Store interface {
	// Flavors
	CreateFlavor(f *models.Flavor) error
	FlavorByID(id uint) (*models.Flavor, error)
	FlavorByName(name string) (*models.Flavor, error)
	UpdateFlavor(f *models.Flavor) error
	DeleteFlavor(id uint) (bool, error)
	ListFlavors() ([]models.Flavor, error)

	// Materials
	CreateMaterial(m *models.Material) error
	MaterialByID(id uint) (*models.Material, error)
	MaterialByName(name string) (*models.Material, error)
	UpdateMaterial(m *models.Material) error
	DeleteMaterial(id uint) (bool, error)
	ListMaterials() ([]models.Material, error)

	// Ingredients
	CreateIngredient(i *models.Ingredient) error
	IngredientByID(id uint) (*models.Ingredient, error)
	IngredientByName(name string) (*models.Ingredient, error)
	UpdateIngredient(i *models.Ingredient) error
	DeleteIngredient(id uint) (bool, error)
	ListIngredients() ([]models.Ingredient, error)

	// Addons
	CreateAddon(a *models.Addon) error
	AddonByID(id uint) (*models.Addon, error)
	AddonByName(name string) (*models.Addon, error)
	UpdateAddon(a *models.Addon) error
	DeleteAddon(id uint) (bool, error)
	ListAddons() ([]models.Addon, error)

	// Products (Sizes + resep + Flavors selalu ikut terisi)
	CreateProduct(p *models.Product) error
	ProductByID(id uint) (*models.Product, error)
	ProductByName(name string) (*models.Product, error)
	UpdateProduct(p *models.Product) error
	DeleteProduct(id uint) (bool, error)
	ListProducts() ([]models.Product, error)
	SizeByID(id uint) (*models.Size, error)

	// Stock
	StockFor(itemType string, itemID uint) (*models.StockRecord, error)
	SaveStock(rec *models.StockRecord) error
	DeleteStockFor(itemType string, itemID uint) (bool, error)
	ListStock() ([]models.StockRecord, error)

	// Orders
	CreateOrder(o *models.Order) error
	OrderByID(id uint) (*models.Order, error)
	UpdateOrder(o *models.Order) error
	ListOrders(filter OrderFilter) ([]models.Order, error)

	// Cash flow ledger (append-only; tidak ada Update/Delete)
	AppendTransaction(tx *models.CashFlowTransaction) error
	ListTransactions(limit int) ([]models.CashFlowTransaction, error)
	TransactionsSince(t time.Time) ([]models.CashFlowTransaction, error)
	SumAmountByType(txType string) (float64, error)

	// Settings / engine flags
	GetSetting(key string) (string, bool, error)
	PutSetting(key, value string) error

	// Dipakai MigrationImporter
	HasData() (bool, error)
	EntityCounts() (map[string]int64, error)
	ClearAll() error

	// RunInUnitOfWork menjalankan fn terhadap Store yang sama secara logis.
	// GormStore membungkusnya dalam satu transaksi database; BoltStore
	// menjalankan langkah-langkahnya apa adanya tanpa rollback (lihat
	// dokumentasi BoltStore).
	RunInUnitOfWork(fn func(Store) error) error
}
