package storage

import (
	"encoding/binary"
	"encoding/json"
	"sort"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/yeremiapane/cafe-pos/models"
)

const (
	bucketCollections = "collections"
	bucketSequences   = "seq"
)

const (
	collFlavors      = "flavors"
	collMaterials    = "materials"
	collIngredients  = "ingredients"
	collAddons       = "addons"
	collProducts     = "products"
	collStock        = "stock"
	collOrders       = "orders"
	collTransactions = "cash_flow_transactions"
	collSettings     = "settings"
)

// BoltStore -> backend fallback di atas bbolt, dipakai saat engine relational
// tidak tersedia. Setiap "tabel" adalah satu key yang menyimpan seluruh koleksi
// sebagai JSON: read seluruh koleksi -> mutasi in-memory -> tulis balik.
//
// PENTING: RunInUnitOfWork di sini TIDAK atomik antar step. Crash di tengah
// urutan (mis. setelah potong stok, sebelum simpan order) meninggalkan state
// parsial. Ini keterbatasan yang didokumentasikan, bukan bug; lihat contract
// test yang mengunci perilakunya.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(db *bolt.DB) (*BoltStore, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketCollections)); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSequences))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) nextID(coll string) (uint, error) {
	var id uint64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketSequences))
		cur := b.Get([]byte(coll))
		if cur != nil {
			id = binary.BigEndian.Uint64(cur)
		}
		id++
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, id)
		return b.Put([]byte(coll), buf)
	})
	return uint(id), err
}

func readColl[T any](s *BoltStore, coll string) ([]T, error) {
	var out []T
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketCollections)).Get([]byte(coll))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &out)
	})
	return out, err
}

func writeColl[T any](s *BoltStore, coll string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketCollections)).Put([]byte(coll), data)
	})
}

func boltCreate[T any](s *BoltStore, coll string, rec *T, id func(*T) *uint) error {
	items, err := readColl[T](s, coll)
	if err != nil {
		return err
	}
	if *id(rec) == 0 {
		next, err := s.nextID(coll)
		if err != nil {
			return err
		}
		*id(rec) = next
	}
	items = append(items, *rec)
	return writeColl(s, coll, items)
}

func boltFind[T any](s *BoltStore, coll string, match func(*T) bool) (*T, error) {
	items, err := readColl[T](s, coll)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if match(&items[i]) {
			cp := items[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func boltReplace[T any](s *BoltStore, coll string, match func(*T) bool, rec *T) error {
	items, err := readColl[T](s, coll)
	if err != nil {
		return err
	}
	for i := range items {
		if match(&items[i]) {
			items[i] = *rec
			return writeColl(s, coll, items)
		}
	}
	return ErrNotFound
}

func boltDelete[T any](s *BoltStore, coll string, match func(*T) bool) (bool, error) {
	items, err := readColl[T](s, coll)
	if err != nil {
		return false, err
	}
	kept := items[:0]
	removed := false
	for i := range items {
		if match(&items[i]) {
			removed = true
			continue
		}
		kept = append(kept, items[i])
	}
	if !removed {
		return false, nil
	}
	return removed, writeColl(s, coll, kept)
}

func sameName(a, b string) bool { return strings.EqualFold(a, b) }

/* ---------- Flavors ---------- */

func (s *BoltStore) CreateFlavor(f *models.Flavor) error {
	stamp(&f.CreatedAt, &f.UpdatedAt)
	return boltCreate(s, collFlavors, f, func(x *models.Flavor) *uint { return &x.ID })
}

func (s *BoltStore) FlavorByID(id uint) (*models.Flavor, error) {
	return boltFind(s, collFlavors, func(f *models.Flavor) bool { return f.ID == id })
}

func (s *BoltStore) FlavorByName(name string) (*models.Flavor, error) {
	return boltFind(s, collFlavors, func(f *models.Flavor) bool { return sameName(f.Name, name) })
}

func (s *BoltStore) UpdateFlavor(f *models.Flavor) error {
	f.UpdatedAt = time.Now()
	return boltReplace(s, collFlavors, func(x *models.Flavor) bool { return x.ID == f.ID }, f)
}

func (s *BoltStore) DeleteFlavor(id uint) (bool, error) {
	return boltDelete(s, collFlavors, func(f *models.Flavor) bool { return f.ID == id })
}

func (s *BoltStore) ListFlavors() ([]models.Flavor, error) {
	items, err := readColl[models.Flavor](s, collFlavors)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

/* ---------- Materials ---------- */

func (s *BoltStore) CreateMaterial(m *models.Material) error {
	stamp(&m.CreatedAt, &m.UpdatedAt)
	return boltCreate(s, collMaterials, m, func(x *models.Material) *uint { return &x.ID })
}

func (s *BoltStore) MaterialByID(id uint) (*models.Material, error) {
	return boltFind(s, collMaterials, func(m *models.Material) bool { return m.ID == id })
}

func (s *BoltStore) MaterialByName(name string) (*models.Material, error) {
	return boltFind(s, collMaterials, func(m *models.Material) bool { return sameName(m.Name, name) })
}

func (s *BoltStore) UpdateMaterial(m *models.Material) error {
	m.UpdatedAt = time.Now()
	return boltReplace(s, collMaterials, func(x *models.Material) bool { return x.ID == m.ID }, m)
}

func (s *BoltStore) DeleteMaterial(id uint) (bool, error) {
	return boltDelete(s, collMaterials, func(m *models.Material) bool { return m.ID == id })
}

func (s *BoltStore) ListMaterials() ([]models.Material, error) {
	items, err := readColl[models.Material](s, collMaterials)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

/* ---------- Ingredients ---------- */

func (s *BoltStore) CreateIngredient(i *models.Ingredient) error {
	stamp(&i.CreatedAt, &i.UpdatedAt)
	return boltCreate(s, collIngredients, i, func(x *models.Ingredient) *uint { return &x.ID })
}

func (s *BoltStore) IngredientByID(id uint) (*models.Ingredient, error) {
	return boltFind(s, collIngredients, func(i *models.Ingredient) bool { return i.ID == id })
}

func (s *BoltStore) IngredientByName(name string) (*models.Ingredient, error) {
	return boltFind(s, collIngredients, func(i *models.Ingredient) bool { return sameName(i.Name, name) })
}

func (s *BoltStore) UpdateIngredient(i *models.Ingredient) error {
	i.UpdatedAt = time.Now()
	return boltReplace(s, collIngredients, func(x *models.Ingredient) bool { return x.ID == i.ID }, i)
}

func (s *BoltStore) DeleteIngredient(id uint) (bool, error) {
	return boltDelete(s, collIngredients, func(i *models.Ingredient) bool { return i.ID == id })
}

func (s *BoltStore) ListIngredients() ([]models.Ingredient, error) {
	items, err := readColl[models.Ingredient](s, collIngredients)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

/* ---------- Addons ---------- */

func (s *BoltStore) CreateAddon(a *models.Addon) error {
	stamp(&a.CreatedAt, &a.UpdatedAt)
	return boltCreate(s, collAddons, a, func(x *models.Addon) *uint { return &x.ID })
}

func (s *BoltStore) AddonByID(id uint) (*models.Addon, error) {
	return boltFind(s, collAddons, func(a *models.Addon) bool { return a.ID == id })
}

func (s *BoltStore) AddonByName(name string) (*models.Addon, error) {
	return boltFind(s, collAddons, func(a *models.Addon) bool { return sameName(a.Name, name) })
}

func (s *BoltStore) UpdateAddon(a *models.Addon) error {
	a.UpdatedAt = time.Now()
	return boltReplace(s, collAddons, func(x *models.Addon) bool { return x.ID == a.ID }, a)
}

func (s *BoltStore) DeleteAddon(id uint) (bool, error) {
	return boltDelete(s, collAddons, func(a *models.Addon) bool { return a.ID == id })
}

func (s *BoltStore) ListAddons() ([]models.Addon, error) {
	items, err := readColl[models.Addon](s, collAddons)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

/* ---------- Products ---------- */

// Produk disimpan utuh (sizes + resep + flavors) di dalam satu dokumen JSON,
// jadi tidak perlu join antar koleksi saat membaca.
func (s *BoltStore) CreateProduct(p *models.Product) error {
	stamp(&p.CreatedAt, &p.UpdatedAt)
	if p.ID == 0 {
		next, err := s.nextID(collProducts)
		if err != nil {
			return err
		}
		p.ID = next
	}
	for i := range p.Sizes {
		if p.Sizes[i].ID == 0 {
			sizeID, err := s.nextID("sizes")
			if err != nil {
				return err
			}
			p.Sizes[i].ID = sizeID
		}
		p.Sizes[i].ProductID = p.ID
		stamp(&p.Sizes[i].CreatedAt, &p.Sizes[i].UpdatedAt)
	}
	items, err := readColl[models.Product](s, collProducts)
	if err != nil {
		return err
	}
	items = append(items, *p)
	return writeColl(s, collProducts, items)
}

func (s *BoltStore) ProductByID(id uint) (*models.Product, error) {
	return boltFind(s, collProducts, func(p *models.Product) bool { return p.ID == id })
}

func (s *BoltStore) ProductByName(name string) (*models.Product, error) {
	return boltFind(s, collProducts, func(p *models.Product) bool { return sameName(p.Name, name) })
}

func (s *BoltStore) UpdateProduct(p *models.Product) error {
	p.UpdatedAt = time.Now()
	for i := range p.Sizes {
		if p.Sizes[i].ID == 0 {
			sizeID, err := s.nextID("sizes")
			if err != nil {
				return err
			}
			p.Sizes[i].ID = sizeID
		}
		p.Sizes[i].ProductID = p.ID
	}
	return boltReplace(s, collProducts, func(x *models.Product) bool { return x.ID == p.ID }, p)
}

func (s *BoltStore) DeleteProduct(id uint) (bool, error) {
	return boltDelete(s, collProducts, func(p *models.Product) bool { return p.ID == id })
}

func (s *BoltStore) ListProducts() ([]models.Product, error) {
	items, err := readColl[models.Product](s, collProducts)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

func (s *BoltStore) SizeByID(id uint) (*models.Size, error) {
	products, err := readColl[models.Product](s, collProducts)
	if err != nil {
		return nil, err
	}
	for i := range products {
		for j := range products[i].Sizes {
			if products[i].Sizes[j].ID == id {
				cp := products[i].Sizes[j]
				return &cp, nil
			}
		}
	}
	return nil, ErrNotFound
}

/* ---------- Stock ---------- */

func (s *BoltStore) StockFor(itemType string, itemID uint) (*models.StockRecord, error) {
	return boltFind(s, collStock, func(r *models.StockRecord) bool {
		return r.ItemType == itemType && r.ItemID == itemID
	})
}

// SaveStock -> upsert berdasarkan (item_type, item_id)
func (s *BoltStore) SaveStock(rec *models.StockRecord) error {
	rec.UpdatedAt = time.Now()
	items, err := readColl[models.StockRecord](s, collStock)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ItemType == rec.ItemType && items[i].ItemID == rec.ItemID {
			rec.ID = items[i].ID
			items[i] = *rec
			return writeColl(s, collStock, items)
		}
	}
	if rec.ID == 0 {
		next, err := s.nextID(collStock)
		if err != nil {
			return err
		}
		rec.ID = next
	}
	items = append(items, *rec)
	return writeColl(s, collStock, items)
}

func (s *BoltStore) DeleteStockFor(itemType string, itemID uint) (bool, error) {
	return boltDelete(s, collStock, func(r *models.StockRecord) bool {
		return r.ItemType == itemType && r.ItemID == itemID
	})
}

func (s *BoltStore) ListStock() ([]models.StockRecord, error) {
	items, err := readColl[models.StockRecord](s, collStock)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ItemType != items[j].ItemType {
			return items[i].ItemType < items[j].ItemType
		}
		return items[i].ItemID < items[j].ItemID
	})
	return items, nil
}

/* ---------- Orders ---------- */

func (s *BoltStore) CreateOrder(o *models.Order) error {
	stamp(&o.CreatedAt, &o.UpdatedAt)
	return boltCreate(s, collOrders, o, func(x *models.Order) *uint { return &x.ID })
}

func (s *BoltStore) OrderByID(id uint) (*models.Order, error) {
	return boltFind(s, collOrders, func(o *models.Order) bool { return o.ID == id })
}

func (s *BoltStore) UpdateOrder(o *models.Order) error {
	o.UpdatedAt = time.Now()
	return boltReplace(s, collOrders, func(x *models.Order) bool { return x.ID == o.ID }, o)
}

func (s *BoltStore) ListOrders(filter OrderFilter) ([]models.Order, error) {
	items, err := readColl[models.Order](s, collOrders)
	if err != nil {
		return nil, err
	}
	if filter == OrderFilterToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		filtered := items[:0]
		for _, o := range items {
			if !o.CreatedAt.Before(startOfDay) {
				filtered = append(filtered, o)
			}
		}
		items = filtered
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

/* ---------- Cash flow ---------- */

func (s *BoltStore) AppendTransaction(tx *models.CashFlowTransaction) error {
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	return boltCreate(s, collTransactions, tx, func(x *models.CashFlowTransaction) *uint { return &x.ID })
}

func (s *BoltStore) ListTransactions(limit int) ([]models.CashFlowTransaction, error) {
	items, err := readColl[models.CashFlowTransaction](s, collTransactions)
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *BoltStore) TransactionsSince(t time.Time) ([]models.CashFlowTransaction, error) {
	all, err := s.ListTransactions(0)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, tx := range all {
		if !tx.CreatedAt.Before(t) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// SumAmountByType -> fold seluruh ledger; tidak ada agregat di key-value store
func (s *BoltStore) SumAmountByType(txType string) (float64, error) {
	items, err := readColl[models.CashFlowTransaction](s, collTransactions)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, tx := range items {
		if tx.Type == txType {
			sum += tx.Amount
		}
	}
	return sum, nil
}

/* ---------- Settings ---------- */

func (s *BoltStore) GetSetting(key string) (string, bool, error) {
	setting, err := boltFind(s, collSettings, func(x *models.Setting) bool { return x.Key == key })
	if err != nil {
		if err == ErrNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return setting.Value, true, nil
}

func (s *BoltStore) PutSetting(key, value string) error {
	items, err := readColl[models.Setting](s, collSettings)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].Key == key {
			items[i].Value = value
			items[i].UpdatedAt = time.Now()
			return writeColl(s, collSettings, items)
		}
	}
	items = append(items, models.Setting{Key: key, Value: value, UpdatedAt: time.Now()})
	return writeColl(s, collSettings, items)
}

/* ---------- Migration helpers ---------- */

func (s *BoltStore) HasData() (bool, error) {
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

func (s *BoltStore) EntityCounts() (map[string]int64, error) {
	counts := make(map[string]int64)
	count := func(name, coll string) error {
		var n int64
		err := s.db.View(func(tx *bolt.Tx) error {
			data := tx.Bucket([]byte(bucketCollections)).Get([]byte(coll))
			if data == nil {
				return nil
			}
			var raw []json.RawMessage
			if err := json.Unmarshal(data, &raw); err != nil {
				return err
			}
			n = int64(len(raw))
			return nil
		})
		counts[name] = n
		return err
	}
	pairs := [][2]string{
		{"flavors", collFlavors}, {"materials", collMaterials},
		{"ingredients", collIngredients}, {"addons", collAddons},
		{"products", collProducts}, {"stock", collStock},
		{"orders", collOrders}, {"transactions", collTransactions},
	}
	for _, p := range pairs {
		if err := count(p[0], p[1]); err != nil {
			return nil, err
		}
	}
	return counts, nil
}

// ClearAll menghapus semua koleksi data; settings dibiarkan
func (s *BoltStore) ClearAll() error {
	colls := []string{
		collFlavors, collMaterials, collIngredients, collAddons,
		collProducts, collStock, collOrders, collTransactions,
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCollections))
		for _, c := range colls {
			if err := b.Delete([]byte(c)); err != nil {
				return err
			}
		}
		return nil
	})
}

/* ---------- Unit of work ---------- */

// RunInUnitOfWork di backend ini hanya menjalankan fn secara berurutan.
// Tidak ada rollback: kegagalan di tengah meninggalkan step sebelumnya
// tetap tertulis.
func (s *BoltStore) RunInUnitOfWork(fn func(Store) error) error {
	return fn(s)
}

func stamp(createdAt, updatedAt *time.Time) {
	now := time.Now()
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
