package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/router"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndOrderFlow menguji flow utama lewat HTTP:
// 1. Seed katalog: material, ingredient, addon, flavor, produk + resep
// 2. Set stok awal
// 3. Commit order (bayar 150 untuk total 135)
// 4. Cek stok terpotong sesuai resep
// 5. Cek saldo laci naik sebesar uang yang diterima
// 6. Update status order
func TestEndToEndOrderFlow(t *testing.T) {
	db := setupTestDB()
	store := storage.NewGormStore(db)
	svcs := router.NewServices(store, nil, nil)
	r := router.SetupRouter(svcs)

	cupID := createEntity(t, r, "/materials", map[string]interface{}{"name": "Cup", "unit": "pcs"})
	beansID := createEntity(t, r, "/ingredients", map[string]interface{}{
		"name": "Coffee Beans", "unit": "g", "price_per_purchase": 90000, "units_per_purchase": 1000,
	})
	shotID := createEntity(t, r, "/addons", map[string]interface{}{"name": "Extra Shot", "price": 15})
	flavorID := createEntity(t, r, "/flavors", map[string]interface{}{"name": "Vanilla"})

	productID := createEntity(t, r, "/products", map[string]interface{}{
		"name":       "Iced Coffee",
		"category":   "Coffee",
		"flavor_ids": []uint{flavorID},
		"sizes": []map[string]interface{}{
			{
				"name":        "Regular",
				"price":       120,
				"materials":   []map[string]interface{}{{"id": cupID, "qty": 1}},
				"ingredients": []map[string]interface{}{{"id": beansID, "qty": 10}},
			},
		},
	})

	// Stok awal
	setStock(t, r, models.ItemTypeMaterial, cupID, 300)
	setStock(t, r, models.ItemTypeIngredient, beansID, 1000)
	setStock(t, r, models.ItemTypeAddon, shotID, 50)

	// Ambil size id dari detail produk
	var productResp struct {
		Data models.Product `json:"data"`
	}
	w := request(t, r, http.MethodGet, "/products/"+utoa(productID), nil)
	mustStatus(t, w, http.StatusOK)
	decode(t, w, &productResp)
	if len(productResp.Data.Sizes) != 1 {
		t.Fatalf("expected 1 size, got %d", len(productResp.Data.Sizes))
	}
	sizeID := productResp.Data.Sizes[0].ID

	// Commit order: 1x Iced Coffee Regular + Extra Shot, bayar 150
	var orderResp struct {
		Data models.Order `json:"data"`
	}
	w = request(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"paid":       150,
		"created_by": "kasir",
		"items": []map[string]interface{}{
			{
				"product_id": productID,
				"size_id":    sizeID,
				"flavor_id":  flavorID,
				"quantity":   1,
				"addons":     []map[string]interface{}{{"addon_id": shotID, "quantity": 1}},
			},
		},
	})
	mustStatus(t, w, http.StatusCreated)
	decode(t, w, &orderResp)
	order := orderResp.Data
	if order.Total != 135 || order.Paid != 150 || order.Change != 15 {
		t.Fatalf("unexpected totals: total=%v paid=%v change=%v", order.Total, order.Paid, order.Change)
	}
	if order.OrderStatus != models.OrderStatusQueuing {
		t.Fatalf("expected QUEUING, got %s", order.OrderStatus)
	}

	// Stok terpotong sesuai resep
	assertStock(t, r, models.ItemTypeMaterial, cupID, 299)
	assertStock(t, r, models.ItemTypeIngredient, beansID, 990)
	assertStock(t, r, models.ItemTypeAddon, shotID, 49)

	// Saldo laci = uang yang diterima
	var balResp struct {
		Data struct {
			Balance float64 `json:"balance"`
		} `json:"data"`
	}
	w = request(t, r, http.MethodGet, "/cashflow/balance", nil)
	mustStatus(t, w, http.StatusOK)
	decode(t, w, &balResp)
	if balResp.Data.Balance != 150 {
		t.Fatalf("expected balance 150, got %v", balResp.Data.Balance)
	}

	// Update status -> SERVED; stok tidak terpotong lagi
	w = request(t, r, http.MethodPatch, "/orders/"+utoa(order.ID)+"/status",
		map[string]interface{}{"status": models.OrderStatusServed})
	mustStatus(t, w, http.StatusOK)
	assertStock(t, r, models.ItemTypeMaterial, cupID, 299)

	// Pembayaran parsial ditolak
	w = request(t, r, http.MethodPost, "/orders", map[string]interface{}{
		"paid": 100,
		"items": []map[string]interface{}{
			{"product_id": productID, "size_id": sizeID, "quantity": 1},
		},
	})
	mustStatus(t, w, http.StatusBadRequest)

	// Cart kosong ditolak
	w = request(t, r, http.MethodPost, "/orders", map[string]interface{}{"paid": 100})
	mustStatus(t, w, http.StatusBadRequest)
}

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Flavor{},
		&models.Material{},
		&models.Ingredient{},
		&models.Addon{},
		&models.Product{},
		&models.Size{},
		&models.SizeMaterial{},
		&models.SizeIngredient{},
		&models.StockRecord{},
		&models.Order{},
		&models.CashFlowTransaction{},
		&models.Setting{},
	)
	if err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func request(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatal(err)
		}
	}
	req, _ := http.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// createEntity -> POST payload, kembalikan id dari data respons
func createEntity(t *testing.T, r *gin.Engine, path string, payload map[string]interface{}) uint {
	t.Helper()
	w := request(t, r, http.MethodPost, path, payload)
	mustStatus(t, w, http.StatusCreated)
	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	decode(t, w, &resp)
	if resp.Data.ID == 0 {
		t.Fatalf("expected non-zero id from %s", path)
	}
	return resp.Data.ID
}

func setStock(t *testing.T, r *gin.Engine, itemType string, itemID uint, qty float64) {
	t.Helper()
	w := request(t, r, http.MethodPut, "/stocks", map[string]interface{}{
		"item_type": itemType, "item_id": itemID, "quantity": qty,
	})
	mustStatus(t, w, http.StatusOK)
}

func assertStock(t *testing.T, r *gin.Engine, itemType string, itemID uint, want float64) {
	t.Helper()
	var resp struct {
		Data []models.StockRecord `json:"data"`
	}
	w := request(t, r, http.MethodGet, "/stocks", nil)
	mustStatus(t, w, http.StatusOK)
	decode(t, w, &resp)
	for _, rec := range resp.Data {
		if rec.ItemType == itemType && rec.ItemID == itemID {
			if rec.Quantity != want {
				t.Fatalf("%s %d: expected quantity %v, got %v", itemType, itemID, want, rec.Quantity)
			}
			return
		}
	}
	t.Fatalf("stock record %s %d not found", itemType, itemID)
}

func utoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
