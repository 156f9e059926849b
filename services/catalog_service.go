package services

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

// CatalogService mengelola master data (produk, flavor, material, ingredient,
// addon). Create bersifat dedup-on-create: nama yang sudah ada (case-insensitive)
// mengembalikan record lama tanpa error, supaya import/seed bisa diulang kapan
// saja tanpa duplikasi.
type CatalogService struct {
	store storage.Store
}

func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// RecipeSpec -> satu baris resep (material/ingredient) untuk sebuah size
type RecipeSpec struct {
	ID  uint    `json:"id"`
	Qty float64 `json:"qty"`
}

type SizeSpec struct {
	Name        string       `json:"name"`
	Price       float64      `json:"price"`
	Materials   []RecipeSpec `json:"materials"`
	Ingredients []RecipeSpec `json:"ingredients"`
}

type ProductSpec struct {
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	ImageURL  string     `json:"image_url"`
	FlavorIDs []uint     `json:"flavor_ids"`
	Sizes     []SizeSpec `json:"sizes"`
}

/* ---------- Flavors ---------- */

func (s *CatalogService) CreateFlavor(name string) (*models.Flavor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("flavor name is required")
	}
	if existing, err := s.store.FlavorByName(name); err == nil {
		return existing, nil
	} else if err != storage.ErrNotFound {
		return nil, err
	}
	f := &models.Flavor{Name: name}
	if err := s.store.CreateFlavor(f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *CatalogService) UpdateFlavor(id uint, name string) (*models.Flavor, error) {
	f, err := s.store.FlavorByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		f.Name = name
	}
	if err := s.store.UpdateFlavor(f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFlavor -> idempotent: id yang sudah hilang dianggap sukses (false)
func (s *CatalogService) DeleteFlavor(id uint) (bool, error) {
	return s.store.DeleteFlavor(id)
}

func (s *CatalogService) ListFlavors() ([]models.Flavor, error) {
	return s.store.ListFlavors()
}

// ImportDefaultFlavorSet seed daftar flavor standar kedai. Lewat dedup create,
// jadi aman dipanggil berulang kali.
func (s *CatalogService) ImportDefaultFlavorSet() ([]models.Flavor, error) {
	defaults := []string{
		"Original", "Vanilla", "Hazelnut", "Caramel", "Chocolate",
		"Matcha", "Taro", "Pandan", "Strawberry",
	}
	for _, name := range defaults {
		if _, err := s.CreateFlavor(name); err != nil {
			return nil, err
		}
	}
	return s.store.ListFlavors()
}

/* ---------- Materials ---------- */

func (s *CatalogService) CreateMaterial(name, unit string) (*models.Material, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("material name is required")
	}
	if existing, err := s.store.MaterialByName(name); err == nil {
		return existing, nil
	} else if err != storage.ErrNotFound {
		return nil, err
	}
	m := &models.Material{Name: name, Unit: unit}
	if m.Unit == "" {
		m.Unit = "pcs"
	}
	if err := s.store.CreateMaterial(m); err != nil {
		return nil, err
	}
	// Material ikut perhitungan stok: buat record stok 0 bersamanya
	if err := s.store.SaveStock(&models.StockRecord{ItemType: models.ItemTypeMaterial, ItemID: m.ID}); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) UpdateMaterial(id uint, name, unit string) (*models.Material, error) {
	m, err := s.store.MaterialByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		m.Name = name
	}
	if unit != "" {
		m.Unit = unit
	}
	if err := s.store.UpdateMaterial(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *CatalogService) DeleteMaterial(id uint) (bool, error) {
	deleted, err := s.store.DeleteMaterial(id)
	if err != nil || !deleted {
		return deleted, err
	}
	_, err = s.store.DeleteStockFor(models.ItemTypeMaterial, id)
	return true, err
}

func (s *CatalogService) ListMaterials() ([]models.Material, error) {
	return s.store.ListMaterials()
}

/* ---------- Ingredients ---------- */

func (s *CatalogService) CreateIngredient(name, unit string, pricePerPurchase, unitsPerPurchase float64) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("ingredient name is required")
	}
	if existing, err := s.store.IngredientByName(name); err == nil {
		return existing, nil
	} else if err != storage.ErrNotFound {
		return nil, err
	}
	i := &models.Ingredient{
		Name:             name,
		Unit:             unit,
		PricePerPurchase: pricePerPurchase,
		UnitsPerPurchase: unitsPerPurchase,
	}
	if i.Unit == "" {
		i.Unit = "g"
	}
	i.RecalcPricePerUnit()
	if err := s.store.CreateIngredient(i); err != nil {
		return nil, err
	}
	if err := s.store.SaveStock(&models.StockRecord{ItemType: models.ItemTypeIngredient, ItemID: i.ID}); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *CatalogService) UpdateIngredient(id uint, name, unit string, pricePerPurchase, unitsPerPurchase float64) (*models.Ingredient, error) {
	i, err := s.store.IngredientByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		i.Name = name
	}
	if unit != "" {
		i.Unit = unit
	}
	i.PricePerPurchase = pricePerPurchase
	i.UnitsPerPurchase = unitsPerPurchase
	i.RecalcPricePerUnit()
	if err := s.store.UpdateIngredient(i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *CatalogService) DeleteIngredient(id uint) (bool, error) {
	deleted, err := s.store.DeleteIngredient(id)
	if err != nil || !deleted {
		return deleted, err
	}
	_, err = s.store.DeleteStockFor(models.ItemTypeIngredient, id)
	return true, err
}

func (s *CatalogService) ListIngredients() ([]models.Ingredient, error) {
	return s.store.ListIngredients()
}

/* ---------- Addons ---------- */

func (s *CatalogService) CreateAddon(name string, price float64) (*models.Addon, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("addon name is required")
	}
	if existing, err := s.store.AddonByName(name); err == nil {
		return existing, nil
	} else if err != storage.ErrNotFound {
		return nil, err
	}
	a := &models.Addon{Name: name, Price: price}
	if err := s.store.CreateAddon(a); err != nil {
		return nil, err
	}
	if err := s.store.SaveStock(&models.StockRecord{ItemType: models.ItemTypeAddon, ItemID: a.ID}); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) UpdateAddon(id uint, name string, price float64) (*models.Addon, error) {
	a, err := s.store.AddonByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if name = strings.TrimSpace(name); name != "" {
		a.Name = name
	}
	a.Price = price
	if err := s.store.UpdateAddon(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *CatalogService) DeleteAddon(id uint) (bool, error) {
	deleted, err := s.store.DeleteAddon(id)
	if err != nil || !deleted {
		return deleted, err
	}
	_, err = s.store.DeleteStockFor(models.ItemTypeAddon, id)
	return true, err
}

func (s *CatalogService) ListAddons() ([]models.Addon, error) {
	return s.store.ListAddons()
}

/* ---------- Products ---------- */

func (s *CatalogService) CreateProduct(spec ProductSpec) (*models.Product, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	if spec.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if existing, err := s.store.ProductByName(spec.Name); err == nil {
		return existing, nil
	} else if err != storage.ErrNotFound {
		return nil, err
	}

	p := &models.Product{
		Name:     spec.Name,
		Category: spec.Category,
		ImageURL: spec.ImageURL,
	}
	for _, fid := range spec.FlavorIDs {
		flavor, err := s.store.FlavorByID(fid)
		if err == storage.ErrNotFound {
			// skip flavor yang tidak dikenal
			utils.InfoLogger.Printf("CreateProduct %q: flavor %d not found, skipped", spec.Name, fid)
			continue
		} else if err != nil {
			return nil, err
		}
		p.Flavors = append(p.Flavors, *flavor)
	}
	p.Sizes = buildSizes(spec.Sizes)

	if err := s.store.CreateProduct(p); err != nil {
		return nil, err
	}
	return s.store.ProductByID(p.ID)
}

func (s *CatalogService) UpdateProduct(id uint, spec ProductSpec) (*models.Product, error) {
	p, err := s.store.ProductByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(spec.Name); name != "" {
		p.Name = name
	}
	if spec.Category != "" {
		p.Category = spec.Category
	}
	if spec.ImageURL != "" {
		p.ImageURL = spec.ImageURL
	}
	p.Flavors = nil
	for _, fid := range spec.FlavorIDs {
		flavor, err := s.store.FlavorByID(fid)
		if err == storage.ErrNotFound {
			continue
		} else if err != nil {
			return nil, err
		}
		p.Flavors = append(p.Flavors, *flavor)
	}
	p.Sizes = buildSizes(spec.Sizes)
	for i := range p.Sizes {
		p.Sizes[i].ProductID = p.ID
	}
	if err := s.store.UpdateProduct(p); err != nil {
		return nil, err
	}
	return s.store.ProductByID(p.ID)
}

func (s *CatalogService) DeleteProduct(id uint) (bool, error) {
	return s.store.DeleteProduct(id)
}

func (s *CatalogService) ListProducts() ([]models.Product, error) {
	return s.store.ListProducts()
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	p, err := s.store.ProductByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	return p, err
}

func buildSizes(specs []SizeSpec) []models.Size {
	sizes := make([]models.Size, 0, len(specs))
	for _, ss := range specs {
		size := models.Size{Name: ss.Name, Price: ss.Price}
		for _, m := range ss.Materials {
			size.Materials = append(size.Materials, models.SizeMaterial{MaterialID: m.ID, Qty: m.Qty})
		}
		for _, ing := range ss.Ingredients {
			size.Ingredients = append(size.Ingredients, models.SizeIngredient{IngredientID: ing.ID, Qty: ing.Qty})
		}
		sizes = append(sizes, size)
	}
	return sizes
}
