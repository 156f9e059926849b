package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-pos/models"
)

// GormStore -> backend transaksional di atas gorm (sqlite untuk on-device,
// mysql opsional). RunInUnitOfWork membungkus langkah-langkah dalam satu
// transaksi database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

/* ---------- Flavors ---------- */

func (s *GormStore) CreateFlavor(f *models.Flavor) error {
	return s.db.Create(f).Error
}

func (s *GormStore) FlavorByID(id uint) (*models.Flavor, error) {
	var f models.Flavor
	if err := s.db.First(&f, id).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *GormStore) FlavorByName(name string) (*models.Flavor, error) {
	var f models.Flavor
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&f).Error; err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (s *GormStore) UpdateFlavor(f *models.Flavor) error {
	return s.db.Save(f).Error
}

func (s *GormStore) DeleteFlavor(id uint) (bool, error) {
	res := s.db.Delete(&models.Flavor{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListFlavors() ([]models.Flavor, error) {
	var out []models.Flavor
	err := s.db.Order("LOWER(name)").Find(&out).Error
	return out, err
}

/* ---------- Materials ---------- */

func (s *GormStore) CreateMaterial(m *models.Material) error {
	return s.db.Create(m).Error
}

func (s *GormStore) MaterialByID(id uint) (*models.Material, error) {
	var m models.Material
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *GormStore) MaterialByName(name string) (*models.Material, error) {
	var m models.Material
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (s *GormStore) UpdateMaterial(m *models.Material) error {
	return s.db.Save(m).Error
}

func (s *GormStore) DeleteMaterial(id uint) (bool, error) {
	res := s.db.Delete(&models.Material{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListMaterials() ([]models.Material, error) {
	var out []models.Material
	err := s.db.Order("LOWER(name)").Find(&out).Error
	return out, err
}

/* ---------- Ingredients ---------- */

func (s *GormStore) CreateIngredient(i *models.Ingredient) error {
	return s.db.Create(i).Error
}

func (s *GormStore) IngredientByID(id uint) (*models.Ingredient, error) {
	var i models.Ingredient
	if err := s.db.First(&i, id).Error; err != nil {
		return nil, translate(err)
	}
	return &i, nil
}

func (s *GormStore) IngredientByName(name string) (*models.Ingredient, error) {
	var i models.Ingredient
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&i).Error; err != nil {
		return nil, translate(err)
	}
	return &i, nil
}

func (s *GormStore) UpdateIngredient(i *models.Ingredient) error {
	return s.db.Save(i).Error
}

func (s *GormStore) DeleteIngredient(id uint) (bool, error) {
	res := s.db.Delete(&models.Ingredient{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListIngredients() ([]models.Ingredient, error) {
	var out []models.Ingredient
	err := s.db.Order("LOWER(name)").Find(&out).Error
	return out, err
}

/* ---------- Addons ---------- */

func (s *GormStore) CreateAddon(a *models.Addon) error {
	return s.db.Create(a).Error
}

func (s *GormStore) AddonByID(id uint) (*models.Addon, error) {
	var a models.Addon
	if err := s.db.First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) AddonByName(name string) (*models.Addon, error) {
	var a models.Addon
	if err := s.db.Where("LOWER(name) = LOWER(?)", name).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) UpdateAddon(a *models.Addon) error {
	return s.db.Save(a).Error
}

func (s *GormStore) DeleteAddon(id uint) (bool, error) {
	res := s.db.Delete(&models.Addon{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListAddons() ([]models.Addon, error) {
	var out []models.Addon
	err := s.db.Order("LOWER(name)").Find(&out).Error
	return out, err
}

/* ---------- Products ---------- */

func (s *GormStore) productQuery() *gorm.DB {
	return s.db.
		Preload("Sizes").
		Preload("Sizes.Materials").
		Preload("Sizes.Ingredients").
		Preload("Flavors")
}

func (s *GormStore) CreateProduct(p *models.Product) error {
	return s.db.Create(p).Error
}

func (s *GormStore) ProductByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.productQuery().First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *GormStore) ProductByName(name string) (*models.Product, error) {
	var p models.Product
	if err := s.productQuery().Where("LOWER(name) = LOWER(?)", name).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// UpdateProduct mengganti sizes (beserta resepnya) dan keanggotaan flavor
// secara utuh, lalu menyimpan atribut produk.
func (s *GormStore) UpdateProduct(p *models.Product) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var sizeIDs []uint
		if err := tx.Model(&models.Size{}).Where("product_id = ?", p.ID).Pluck("id", &sizeIDs).Error; err != nil {
			return err
		}
		if len(sizeIDs) > 0 {
			if err := tx.Where("size_id IN ?", sizeIDs).Delete(&models.SizeMaterial{}).Error; err != nil {
				return err
			}
			if err := tx.Where("size_id IN ?", sizeIDs).Delete(&models.SizeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", p.ID).Delete(&models.Size{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Product{ID: p.ID}).Association("Flavors").Replace(p.Flavors); err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(p).Error
	})
}

func (s *GormStore) DeleteProduct(id uint) (bool, error) {
	var p models.Product
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&p).Association("Flavors").Clear(); err != nil {
			return err
		}
		var sizeIDs []uint
		if err := tx.Model(&models.Size{}).Where("product_id = ?", p.ID).Pluck("id", &sizeIDs).Error; err != nil {
			return err
		}
		if len(sizeIDs) > 0 {
			if err := tx.Where("size_id IN ?", sizeIDs).Delete(&models.SizeMaterial{}).Error; err != nil {
				return err
			}
			if err := tx.Where("size_id IN ?", sizeIDs).Delete(&models.SizeIngredient{}).Error; err != nil {
				return err
			}
			if err := tx.Where("product_id = ?", p.ID).Delete(&models.Size{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&p).Error
	})
	return err == nil, err
}

func (s *GormStore) ListProducts() ([]models.Product, error) {
	var out []models.Product
	err := s.productQuery().Order("LOWER(name)").Find(&out).Error
	return out, err
}

func (s *GormStore) SizeByID(id uint) (*models.Size, error) {
	var sz models.Size
	if err := s.db.Preload("Materials").Preload("Ingredients").First(&sz, id).Error; err != nil {
		return nil, translate(err)
	}
	return &sz, nil
}

/* ---------- Stock ---------- */

func (s *GormStore) StockFor(itemType string, itemID uint) (*models.StockRecord, error) {
	var rec models.StockRecord
	if err := s.db.Where("item_type = ? AND item_id = ?", itemType, itemID).First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// SaveStock -> upsert berdasarkan (item_type, item_id)
func (s *GormStore) SaveStock(rec *models.StockRecord) error {
	rec.UpdatedAt = time.Now()
	if rec.ID == 0 {
		var existing models.StockRecord
		err := s.db.Where("item_type = ? AND item_id = ?", rec.ItemType, rec.ItemID).First(&existing).Error
		if err == nil {
			rec.ID = existing.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return s.db.Save(rec).Error
}

func (s *GormStore) DeleteStockFor(itemType string, itemID uint) (bool, error) {
	res := s.db.Where("item_type = ? AND item_id = ?", itemType, itemID).Delete(&models.StockRecord{})
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) ListStock() ([]models.StockRecord, error) {
	var out []models.StockRecord
	err := s.db.Order("item_type, item_id").Find(&out).Error
	return out, err
}

/* ---------- Orders ---------- */

func (s *GormStore) CreateOrder(o *models.Order) error {
	return s.db.Create(o).Error
}

func (s *GormStore) OrderByID(id uint) (*models.Order, error) {
	var o models.Order
	if err := s.db.First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *GormStore) UpdateOrder(o *models.Order) error {
	return s.db.Save(o).Error
}

func (s *GormStore) ListOrders(filter OrderFilter) ([]models.Order, error) {
	q := s.db.Order("created_at desc")
	if filter == OrderFilterToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		q = q.Where("created_at >= ?", startOfDay)
	}
	var out []models.Order
	err := q.Find(&out).Error
	return out, err
}

/* ---------- Cash flow ---------- */

func (s *GormStore) AppendTransaction(tx *models.CashFlowTransaction) error {
	return s.db.Create(tx).Error
}

func (s *GormStore) ListTransactions(limit int) ([]models.CashFlowTransaction, error) {
	q := s.db.Order("created_at desc, id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.CashFlowTransaction
	err := q.Find(&out).Error
	return out, err
}

func (s *GormStore) TransactionsSince(t time.Time) ([]models.CashFlowTransaction, error) {
	var out []models.CashFlowTransaction
	err := s.db.Where("created_at >= ?", t).Order("created_at desc, id desc").Find(&out).Error
	return out, err
}

// SumAmountByType -> agregat SUM di sisi database, bukan fold in-memory
func (s *GormStore) SumAmountByType(txType string) (float64, error) {
	var sum float64
	err := s.db.Model(&models.CashFlowTransaction{}).
		Where("type = ?", txType).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

/* ---------- Settings ---------- */

func (s *GormStore) GetSetting(key string) (string, bool, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return setting.Value, true, nil
}

func (s *GormStore) PutSetting(key, value string) error {
	setting := models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Save(&setting).Error
}

/* ---------- Migration helpers ---------- */

func (s *GormStore) HasData() (bool, error) {
	counts, err := s.EntityCounts()
	if err != nil {
		return false, err
	}
	for _, c := range counts {
		if c > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *GormStore) EntityCounts() (map[string]int64, error) {
	counts := make(map[string]int64)
	tables := map[string]interface{}{
		"flavors":      &models.Flavor{},
		"materials":    &models.Material{},
		"ingredients":  &models.Ingredient{},
		"addons":       &models.Addon{},
		"products":     &models.Product{},
		"stock":        &models.StockRecord{},
		"orders":       &models.Order{},
		"transactions": &models.CashFlowTransaction{},
	}
	for name, model := range tables {
		var c int64
		if err := s.db.Model(model).Count(&c).Error; err != nil {
			return nil, err
		}
		counts[name] = c
	}
	return counts, nil
}

func (s *GormStore) ClearAll() error {
	tables := []interface{}{
		&models.SizeMaterial{}, &models.SizeIngredient{}, &models.Size{},
		&models.Product{}, &models.Flavor{}, &models.Material{},
		&models.Ingredient{}, &models.Addon{}, &models.StockRecord{},
		&models.Order{}, &models.CashFlowTransaction{},
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_flavors").Error; err != nil {
			return err
		}
		for _, m := range tables {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

/* ---------- Unit of work ---------- */

func (s *GormStore) RunInUnitOfWork(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
