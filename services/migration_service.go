package services

import (
	"fmt"

	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

// MigrationService memindahkan seluruh data dari backend fallback (key-value)
// ke backend transaksional, satu kali per instalasi. Urutannya mengikuti
// dependensi: flavor/material/ingredient/addon dulu, lalu produk (flavor
// dihubungkan ulang lewat lookup nama), terakhir riwayat order + ledger kas.
// Semua entitas lewat create yang dedup-aware, jadi menjalankan migrasi dua
// kali tidak menghasilkan duplikat.
type MigrationService struct {
	source  storage.Store // fallback
	dest    storage.Store // transactional
	catalog *CatalogService
}

func NewMigrationService(source, dest storage.Store) *MigrationService {
	return &MigrationService{
		source:  source,
		dest:    dest,
		catalog: NewCatalogService(dest),
	}
}

type DataPresence struct {
	Fallback      bool `json:"fallback"`
	Transactional bool `json:"transactional"`
}

type MigrationResult struct {
	Success     bool           `json:"success"`
	AlreadyDone bool           `json:"already_done"`
	Counts      map[string]int `json:"per_entity_counts"`
	Errors      []string       `json:"errors,omitempty"`
}

func (s *MigrationService) CheckDataExists() (*DataPresence, error) {
	fallbackHas, err := s.source.HasData()
	if err != nil {
		return nil, err
	}
	transactionalHas, err := s.dest.HasData()
	if err != nil {
		return nil, err
	}
	return &DataPresence{Fallback: fallbackHas, Transactional: transactionalHas}, nil
}

// ShouldRun -> dipanggil saat startup: migrasi hanya jalan kalau fallback
// berisi data, tujuan masih kosong, dan flag belum terpasang.
func (s *MigrationService) ShouldRun() (bool, error) {
	if _, done, err := s.dest.GetSetting(models.SettingMigrationDone); err != nil {
		return false, err
	} else if done {
		return false, nil
	}
	presence, err := s.CheckDataExists()
	if err != nil {
		return false, err
	}
	return presence.Fallback && !presence.Transactional, nil
}

// MigrateAll menjalankan migrasi penuh. Pada sukses penuh, fallback
// dikosongkan dan flag dipasang; pada kegagalan parsial, fallback dibiarkan
// utuh dan daftar error per-entitas dikembalikan ke caller.
func (s *MigrationService) MigrateAll() (*MigrationResult, error) {
	result := &MigrationResult{Counts: make(map[string]int)}

	if _, done, err := s.dest.GetSetting(models.SettingMigrationDone); err != nil {
		return nil, err
	} else if done {
		result.Success = true
		result.AlreadyDone = true
		return result, nil
	}

	fail := func(kind string, name interface{}, err error) {
		result.Errors = append(result.Errors, fmt.Sprintf("%s %v: %v", kind, name, err))
	}

	// Peta id lama -> id baru, untuk resep dan record stok
	materialIDs := make(map[uint]uint)
	ingredientIDs := make(map[uint]uint)
	addonIDs := make(map[uint]uint)

	flavors, err := s.source.ListFlavors()
	if err != nil {
		return nil, err
	}
	for _, f := range flavors {
		if _, err := s.catalog.CreateFlavor(f.Name); err != nil {
			fail("flavor", f.Name, err)
			continue
		}
		result.Counts["flavors"]++
	}

	materials, err := s.source.ListMaterials()
	if err != nil {
		return nil, err
	}
	for _, m := range materials {
		created, err := s.catalog.CreateMaterial(m.Name, m.Unit)
		if err != nil {
			fail("material", m.Name, err)
			continue
		}
		materialIDs[m.ID] = created.ID
		s.migrateStock(models.ItemTypeMaterial, m.ID, created.ID, result)
		result.Counts["materials"]++
	}

	ingredients, err := s.source.ListIngredients()
	if err != nil {
		return nil, err
	}
	for _, i := range ingredients {
		created, err := s.catalog.CreateIngredient(i.Name, i.Unit, i.PricePerPurchase, i.UnitsPerPurchase)
		if err != nil {
			fail("ingredient", i.Name, err)
			continue
		}
		ingredientIDs[i.ID] = created.ID
		s.migrateStock(models.ItemTypeIngredient, i.ID, created.ID, result)
		result.Counts["ingredients"]++
	}

	addons, err := s.source.ListAddons()
	if err != nil {
		return nil, err
	}
	for _, a := range addons {
		created, err := s.catalog.CreateAddon(a.Name, a.Price)
		if err != nil {
			fail("addon", a.Name, err)
			continue
		}
		addonIDs[a.ID] = created.ID
		s.migrateStock(models.ItemTypeAddon, a.ID, created.ID, result)
		result.Counts["addons"]++
	}

	products, err := s.source.ListProducts()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		spec := ProductSpec{Name: p.Name, Category: p.Category, ImageURL: p.ImageURL}
		for _, f := range p.Flavors {
			// flavor dirujuk lewat lookup nama di tujuan
			destFlavor, err := s.dest.FlavorByName(f.Name)
			if err == storage.ErrNotFound {
				continue
			} else if err != nil {
				fail("product", p.Name, err)
				continue
			}
			spec.FlavorIDs = append(spec.FlavorIDs, destFlavor.ID)
		}
		for _, size := range p.Sizes {
			sizeSpec := SizeSpec{Name: size.Name, Price: size.Price}
			for _, m := range size.Materials {
				if newID, ok := materialIDs[m.MaterialID]; ok {
					sizeSpec.Materials = append(sizeSpec.Materials, RecipeSpec{ID: newID, Qty: m.Qty})
				}
			}
			for _, ing := range size.Ingredients {
				if newID, ok := ingredientIDs[ing.IngredientID]; ok {
					sizeSpec.Ingredients = append(sizeSpec.Ingredients, RecipeSpec{ID: newID, Qty: ing.Qty})
				}
			}
			spec.Sizes = append(spec.Sizes, sizeSpec)
		}
		if _, err := s.catalog.CreateProduct(spec); err != nil {
			fail("product", p.Name, err)
			continue
		}
		result.Counts["products"]++
	}

	// Riwayat order: informasional, snapshot sudah denormalized, tidak ada
	// referential requirement. Dedup lewat ref number.
	existingOrders, err := s.dest.ListOrders(storage.OrderFilterAll)
	if err != nil {
		return nil, err
	}
	orderRefs := make(map[string]bool, len(existingOrders))
	for _, o := range existingOrders {
		orderRefs[o.RefNumber] = true
	}
	orders, err := s.source.ListOrders(storage.OrderFilterAll)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.RefNumber != "" && orderRefs[o.RefNumber] {
			continue
		}
		copied := o
		copied.ID = 0
		if err := s.dest.CreateOrder(&copied); err != nil {
			fail("order", o.RefNumber, err)
			continue
		}
		result.Counts["orders"]++
	}

	existingTxs, err := s.dest.ListTransactions(0)
	if err != nil {
		return nil, err
	}
	txRefs := make(map[string]bool, len(existingTxs))
	for _, tx := range existingTxs {
		txRefs[tx.RefNumber] = true
	}
	txs, err := s.source.ListTransactions(0)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		if tx.RefNumber != "" && txRefs[tx.RefNumber] {
			continue
		}
		copied := tx
		copied.ID = 0
		copied.OrderID = nil // id order lama tidak berlaku di tujuan
		if err := s.dest.AppendTransaction(&copied); err != nil {
			fail("transaction", tx.RefNumber, err)
			continue
		}
		result.Counts["transactions"]++
	}

	if len(result.Errors) > 0 {
		// Fallback dibiarkan utuh supaya bisa dicoba ulang
		utils.ErrorLogger.Printf("Migration finished with %d errors; fallback data retained", len(result.Errors))
		return result, nil
	}

	if err := s.source.ClearAll(); err != nil {
		fail("cleanup", "fallback", err)
		return result, nil
	}
	if err := s.dest.PutSetting(models.SettingMigrationDone, "true"); err != nil {
		return result, err
	}
	result.Success = true
	utils.InfoLogger.Printf("Migration completed: %v", result.Counts)
	return result, nil
}

func (s *MigrationService) migrateStock(itemType string, oldID, newID uint, result *MigrationResult) {
	rec, err := s.source.StockFor(itemType, oldID)
	if err == storage.ErrNotFound {
		return
	} else if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("stock %s %d: %v", itemType, oldID, err))
		return
	}
	if err := s.dest.SaveStock(&models.StockRecord{
		ItemType: itemType,
		ItemID:   newID,
		Quantity: rec.Quantity,
	}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("stock %s %d: %v", itemType, oldID, err))
	}
}
