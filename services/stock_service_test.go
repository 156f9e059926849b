package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/cafe-pos/models"
)

func TestDeductClampsAtZero(t *testing.T) {
	store := newTestStore(t)
	svc := NewStockService(store, nil)

	_, err := svc.SetQuantity(models.ItemTypeMaterial, 1, 20)
	assert.NoError(t, err)

	// Minta 50 dari stok 20: jalan terus, clamp ke 0, shortfall dilaporkan
	shortfalls, err := svc.Deduct([]DeductionEntry{
		{ItemType: models.ItemTypeMaterial, ItemID: 1, Quantity: 50},
	})
	assert.NoError(t, err)
	assert.Len(t, shortfalls, 1)
	assert.Equal(t, float64(50), shortfalls[0].Requested)
	assert.Equal(t, float64(20), shortfalls[0].Available)
	assert.Equal(t, float64(30), shortfalls[0].Missing)

	rec, err := svc.Get(models.ItemTypeMaterial, 1)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), rec.Quantity)
}

func TestDeductRejectsWhenOversellDisabled(t *testing.T) {
	store := newTestStore(t)
	svc := NewStockService(store, nil)
	svc.AllowOversell = false

	_, err := svc.SetQuantity(models.ItemTypeIngredient, 1, 20)
	assert.NoError(t, err)

	_, err = svc.Deduct([]DeductionEntry{
		{ItemType: models.ItemTypeIngredient, ItemID: 1, Quantity: 50},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Ditolak SEBELUM ada tulisan: stok tidak berubah
	rec, err := svc.Get(models.ItemTypeIngredient, 1)
	assert.NoError(t, err)
	assert.Equal(t, float64(20), rec.Quantity)
}

func TestDeductMergesEntriesPerItem(t *testing.T) {
	store := newTestStore(t)
	svc := NewStockService(store, nil)

	_, err := svc.SetQuantity(models.ItemTypeIngredient, 7, 100)
	assert.NoError(t, err)

	// Dua line item menyentuh ingredient yang sama
	shortfalls, err := svc.Deduct([]DeductionEntry{
		{ItemType: models.ItemTypeIngredient, ItemID: 7, Quantity: 10},
		{ItemType: models.ItemTypeIngredient, ItemID: 7, Quantity: 15},
	})
	assert.NoError(t, err)
	assert.Empty(t, shortfalls)

	rec, err := svc.Get(models.ItemTypeIngredient, 7)
	assert.NoError(t, err)
	assert.Equal(t, float64(75), rec.Quantity)
}

func TestDeductMissingRecordTreatedAsZero(t *testing.T) {
	store := newTestStore(t)
	svc := NewStockService(store, nil)

	shortfalls, err := svc.Deduct([]DeductionEntry{
		{ItemType: models.ItemTypeAddon, ItemID: 42, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Len(t, shortfalls, 1)
	assert.Equal(t, float64(0), shortfalls[0].Available)
	assert.Equal(t, float64(3), shortfalls[0].Missing)

	rec, err := svc.Get(models.ItemTypeAddon, 42)
	assert.NoError(t, err)
	assert.Equal(t, float64(0), rec.Quantity)
}

func TestSetQuantityValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewStockService(store, nil)

	_, err := svc.SetQuantity("BOGUS", 1, 10)
	assert.ErrorIs(t, err, ErrInvalidItemType)

	_, err = svc.SetQuantity(models.ItemTypeMaterial, 1, -5)
	assert.Error(t, err)

	rec, err := svc.SetQuantity(models.ItemTypeMaterial, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, float64(10), rec.Quantity)

	// Override tanpa syarat, naik maupun turun
	rec, err = svc.SetQuantity(models.ItemTypeMaterial, 1, 3)
	assert.NoError(t, err)
	assert.Equal(t, float64(3), rec.Quantity)
}

func TestGetMissingStockReturnsNil(t *testing.T) {
	store := newTestStore(t)
	svc := NewStockService(store, nil)

	rec, err := svc.Get(models.ItemTypeMaterial, 999)
	assert.NoError(t, err)
	assert.Nil(t, rec)
}
