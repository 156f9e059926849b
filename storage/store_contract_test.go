package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-pos/models"
)

func newGormTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Flavor{}, &models.Material{}, &models.Ingredient{},
		&models.Addon{}, &models.Product{}, &models.Size{},
		&models.SizeMaterial{}, &models.SizeIngredient{},
		&models.StockRecord{}, &models.Order{},
		&models.CashFlowTransaction{}, &models.Setting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewGormStore(db)
}

func newBoltTestStore(t *testing.T) Store {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "store.db"), 0600, nil)
	if err != nil {
		t.Fatalf("failed to open bolt: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store, err := NewBoltStore(db)
	if err != nil {
		t.Fatalf("failed to init bolt store: %v", err)
	}
	return store
}

// forEachBackend menjalankan tc terhadap kedua backend: kontrak Store harus
// sama persis di luar soal atomicity unit of work.
func forEachBackend(t *testing.T, tc func(t *testing.T, store Store)) {
	t.Run("gorm", func(t *testing.T) { tc(t, newGormTestStore(t)) })
	t.Run("bolt", func(t *testing.T) { tc(t, newBoltTestStore(t)) })
}

func TestFlavorRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		f := &models.Flavor{Name: "Matcha"}
		assert.NoError(t, store.CreateFlavor(f))
		assert.NotZero(t, f.ID)

		got, err := store.FlavorByID(f.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Matcha", got.Name)

		// Lookup nama case-insensitive di kedua backend
		got, err = store.FlavorByName("mAtChA")
		assert.NoError(t, err)
		assert.Equal(t, f.ID, got.ID)

		_, err = store.FlavorByName("Nonexistent")
		assert.ErrorIs(t, err, ErrNotFound)

		got.Name = "Houjicha"
		assert.NoError(t, store.UpdateFlavor(got))
		got, err = store.FlavorByID(f.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Houjicha", got.Name)

		deleted, err := store.DeleteFlavor(f.ID)
		assert.NoError(t, err)
		assert.True(t, deleted)

		// Hapus kedua: tidak ada yang dihapus, tidak error
		deleted, err = store.DeleteFlavor(f.ID)
		assert.NoError(t, err)
		assert.False(t, deleted)

		_, err = store.FlavorByID(f.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListFlavorsSortedByName(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		for _, name := range []string{"vanilla", "Caramel", "taro"} {
			assert.NoError(t, store.CreateFlavor(&models.Flavor{Name: name}))
		}
		flavors, err := store.ListFlavors()
		assert.NoError(t, err)
		if assert.Len(t, flavors, 3) {
			assert.Equal(t, "Caramel", flavors[0].Name)
			assert.Equal(t, "taro", flavors[1].Name)
			assert.Equal(t, "vanilla", flavors[2].Name)
		}
	})
}

func TestSaveStockUpsertsByItemKey(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		assert.NoError(t, store.SaveStock(&models.StockRecord{
			ItemType: models.ItemTypeMaterial, ItemID: 1, Quantity: 10,
		}))
		// Save kedua untuk kunci yang sama: replace, bukan insert baru
		assert.NoError(t, store.SaveStock(&models.StockRecord{
			ItemType: models.ItemTypeMaterial, ItemID: 1, Quantity: 25,
		}))

		all, err := store.ListStock()
		assert.NoError(t, err)
		assert.Len(t, all, 1)
		assert.Equal(t, float64(25), all[0].Quantity)

		rec, err := store.StockFor(models.ItemTypeMaterial, 1)
		assert.NoError(t, err)
		assert.Equal(t, float64(25), rec.Quantity)

		// Tipe sama id beda = record lain
		assert.NoError(t, store.SaveStock(&models.StockRecord{
			ItemType: models.ItemTypeMaterial, ItemID: 2, Quantity: 5,
		}))
		all, err = store.ListStock()
		assert.NoError(t, err)
		assert.Len(t, all, 2)

		deleted, err := store.DeleteStockFor(models.ItemTypeMaterial, 1)
		assert.NoError(t, err)
		assert.True(t, deleted)
		_, err = store.StockFor(models.ItemTypeMaterial, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestProductRoundTripWithRecipe(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		flavor := &models.Flavor{Name: "Vanilla"}
		assert.NoError(t, store.CreateFlavor(flavor))

		p := &models.Product{
			Name:     "Iced Coffee",
			Category: "Coffee",
			Flavors:  []models.Flavor{*flavor},
			Sizes: []models.Size{
				{
					Name:        "Regular",
					Price:       120,
					Materials:   []models.SizeMaterial{{MaterialID: 1, Qty: 1}},
					Ingredients: []models.SizeIngredient{{IngredientID: 2, Qty: 10}},
				},
			},
		}
		assert.NoError(t, store.CreateProduct(p))
		assert.NotZero(t, p.ID)

		got, err := store.ProductByID(p.ID)
		assert.NoError(t, err)
		assert.Len(t, got.Sizes, 1)
		assert.NotZero(t, got.Sizes[0].ID)
		assert.Len(t, got.Sizes[0].Materials, 1)
		assert.Len(t, got.Sizes[0].Ingredients, 1)
		assert.Len(t, got.Flavors, 1)

		sz, err := store.SizeByID(got.Sizes[0].ID)
		assert.NoError(t, err)
		assert.Equal(t, "Regular", sz.Name)
		assert.Equal(t, float64(120), sz.Price)

		got, err = store.ProductByName("ICED COFFEE")
		assert.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		// Ganti sizes secara utuh
		got.Sizes = []models.Size{{Name: "Large", Price: 150}}
		got.Flavors = nil
		assert.NoError(t, store.UpdateProduct(got))
		got, err = store.ProductByID(p.ID)
		assert.NoError(t, err)
		assert.Len(t, got.Sizes, 1)
		assert.Equal(t, "Large", got.Sizes[0].Name)
		assert.Empty(t, got.Flavors)

		deleted, err := store.DeleteProduct(p.ID)
		assert.NoError(t, err)
		assert.True(t, deleted)
		_, err = store.ProductByID(p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestLedgerListAndSum(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		base := time.Now().Add(-time.Hour)
		txs := []models.CashFlowTransaction{
			{RefNumber: "TXN-1", Type: models.TxTypeInflow, Amount: 100, Category: models.TxCategoryCashDeposit, CreatedAt: base},
			{RefNumber: "TXN-2", Type: models.TxTypeOutflow, Amount: 40, Category: models.TxCategoryExpense, CreatedAt: base.Add(time.Minute)},
			{RefNumber: "TXN-3", Type: models.TxTypeInflow, Amount: 60, Category: models.TxCategoryOrderPayment, CreatedAt: base.Add(2 * time.Minute)},
		}
		for i := range txs {
			assert.NoError(t, store.AppendTransaction(&txs[i]))
		}

		inflow, err := store.SumAmountByType(models.TxTypeInflow)
		assert.NoError(t, err)
		assert.Equal(t, float64(160), inflow)
		outflow, err := store.SumAmountByType(models.TxTypeOutflow)
		assert.NoError(t, err)
		assert.Equal(t, float64(40), outflow)

		// Terbaru duluan, limit dihormati
		recent, err := store.ListTransactions(2)
		assert.NoError(t, err)
		if assert.Len(t, recent, 2) {
			assert.Equal(t, "TXN-3", recent[0].RefNumber)
			assert.Equal(t, "TXN-2", recent[1].RefNumber)
		}

		since, err := store.TransactionsSince(base.Add(30 * time.Second))
		assert.NoError(t, err)
		assert.Len(t, since, 2)
	})
}

func TestSettingsRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		_, ok, err := store.GetSetting("migration_done")
		assert.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, store.PutSetting("migration_done", "true"))
		value, ok, err := store.GetSetting("migration_done")
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "true", value)

		assert.NoError(t, store.PutSetting("migration_done", "false"))
		value, _, err = store.GetSetting("migration_done")
		assert.NoError(t, err)
		assert.Equal(t, "false", value)
	})
}

func TestHasDataAndClearAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store Store) {
		hasData, err := store.HasData()
		assert.NoError(t, err)
		assert.False(t, hasData)

		assert.NoError(t, store.CreateFlavor(&models.Flavor{Name: "Vanilla"}))
		assert.NoError(t, store.SaveStock(&models.StockRecord{ItemType: models.ItemTypeMaterial, ItemID: 1, Quantity: 5}))
		assert.NoError(t, store.PutSetting("migration_done", "true"))

		hasData, err = store.HasData()
		assert.NoError(t, err)
		assert.True(t, hasData)

		counts, err := store.EntityCounts()
		assert.NoError(t, err)
		assert.Equal(t, int64(1), counts["flavors"])
		assert.Equal(t, int64(1), counts["stock"])
		assert.Equal(t, int64(0), counts["orders"])

		assert.NoError(t, store.ClearAll())
		hasData, err = store.HasData()
		assert.NoError(t, err)
		assert.False(t, hasData)

		// Settings bukan data kedai: selamat dari ClearAll
		_, ok, err := store.GetSetting("migration_done")
		assert.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestUnitOfWorkRollsBackOnGorm(t *testing.T) {
	store := newGormTestStore(t)

	boom := errors.New("boom")
	err := store.RunInUnitOfWork(func(st Store) error {
		if err := st.CreateFlavor(&models.Flavor{Name: "Vanilla"}); err != nil {
			return err
		}
		if err := st.SaveStock(&models.StockRecord{ItemType: models.ItemTypeMaterial, ItemID: 1, Quantity: 9}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Semua step di-rollback
	flavors, err := store.ListFlavors()
	assert.NoError(t, err)
	assert.Empty(t, flavors)
	_, err = store.StockFor(models.ItemTypeMaterial, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

// Backend key-value tidak punya rollback: step yang sudah jalan sebelum error
// tetap tertulis. Test ini mengunci keterbatasan itu supaya tidak berubah
// diam-diam.
func TestUnitOfWorkPartialStateOnBolt(t *testing.T) {
	store := newBoltTestStore(t)

	boom := errors.New("boom")
	err := store.RunInUnitOfWork(func(st Store) error {
		if err := st.CreateFlavor(&models.Flavor{Name: "Vanilla"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	flavors, err := store.ListFlavors()
	assert.NoError(t, err)
	assert.Len(t, flavors, 1)
}
