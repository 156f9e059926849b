package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/cafe-pos/models"
)

func TestCreateFlavorDedupCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store)

	first, err := svc.CreateFlavor("Vanilla")
	assert.NoError(t, err)
	assert.NotZero(t, first.ID)

	// Nama sama beda kapitalisasi -> record lama, bukan duplikat
	second, err := svc.CreateFlavor("vanilla")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	third, err := svc.CreateFlavor("  VANILLA  ")
	assert.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)

	flavors, err := svc.ListFlavors()
	assert.NoError(t, err)
	assert.Len(t, flavors, 1)
}

func TestImportDefaultFlavorSetIdempotent(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store)

	flavors, err := svc.ImportDefaultFlavorSet()
	assert.NoError(t, err)
	assert.Len(t, flavors, 9)

	// Import ulang tidak menambah apa-apa
	flavors, err = svc.ImportDefaultFlavorSet()
	assert.NoError(t, err)
	assert.Len(t, flavors, 9)
}

func TestCreateMaterialMakesZeroStockRecord(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store)

	m, err := svc.CreateMaterial("Cup 16oz", "pcs")
	assert.NoError(t, err)

	rec, err := store.StockFor(models.ItemTypeMaterial, m.ID)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), rec.Quantity)

	// Delete menghapus record stoknya juga
	deleted, err := svc.DeleteMaterial(m.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.StockFor(models.ItemTypeMaterial, m.ID)
	assert.Error(t, err)

	// Delete kedua: idempotent, sukses tanpa error
	deleted, err = svc.DeleteMaterial(m.ID)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestIngredientPricePerUnitDerived(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store)

	// 1 kg kopi seharga 90.000 -> 90/gram
	i, err := svc.CreateIngredient("Coffee Beans", "g", 90000, 1000)
	assert.NoError(t, err)
	assert.Equal(t, float64(90), i.PricePerUnit)

	// Harga lot berubah -> harga per unit dihitung ulang
	i, err = svc.UpdateIngredient(i.ID, "", "", 100000, 1000)
	assert.NoError(t, err)
	assert.Equal(t, float64(100), i.PricePerUnit)

	// UnitsPerPurchase nol tidak membagi nol
	i, err = svc.UpdateIngredient(i.ID, "", "", 100000, 0)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), i.PricePerUnit)
}

func TestCreateProductWithSizesAndRecipe(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store)

	cup, _ := svc.CreateMaterial("Cup", "pcs")
	beans, _ := svc.CreateIngredient("Coffee Beans", "g", 90000, 1000)
	vanilla, _ := svc.CreateFlavor("Vanilla")

	p, err := svc.CreateProduct(ProductSpec{
		Name:      "Iced Coffee",
		Category:  "Coffee",
		FlavorIDs: []uint{vanilla.ID, 9999}, // id tak dikenal di-skip
		Sizes: []SizeSpec{
			{
				Name:        "Regular",
				Price:       120,
				Materials:   []RecipeSpec{{ID: cup.ID, Qty: 1}},
				Ingredients: []RecipeSpec{{ID: beans.ID, Qty: 10}},
			},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, p.Flavors, 1)
	assert.Len(t, p.Sizes, 1)
	assert.Len(t, p.Sizes[0].Materials, 1)
	assert.Len(t, p.Sizes[0].Ingredients, 1)
	assert.Equal(t, float64(10), p.Sizes[0].Ingredients[0].Qty)

	// Dedup juga berlaku untuk produk
	again, err := svc.CreateProduct(ProductSpec{Name: "iced coffee"})
	assert.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
}

func TestUpdateProductReplacesSizes(t *testing.T) {
	store := newTestStore(t)
	svc := NewCatalogService(store)

	p, err := svc.CreateProduct(ProductSpec{
		Name:  "Latte",
		Sizes: []SizeSpec{{Name: "Small", Price: 100}, {Name: "Large", Price: 150}},
	})
	assert.NoError(t, err)
	assert.Len(t, p.Sizes, 2)

	p, err = svc.UpdateProduct(p.ID, ProductSpec{
		Sizes: []SizeSpec{{Name: "Regular", Price: 120}},
	})
	assert.NoError(t, err)
	assert.Len(t, p.Sizes, 1)
	assert.Equal(t, "Regular", p.Sizes[0].Name)
}
