package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/cafe-pos/controllers"
	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

func setupCatalogRouter(t *testing.T) *gin.Engine {
	t.Helper()
	utils.InitLogger()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Flavor{}, &models.Material{}, &models.Ingredient{},
		&models.Addon{}, &models.Product{}, &models.Size{},
		&models.SizeMaterial{}, &models.SizeIngredient{}, &models.StockRecord{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	catalog := services.NewCatalogService(storage.NewGormStore(db))
	ctrl := controllers.NewCatalogController(catalog)

	r := gin.Default()
	r.POST("/flavors", ctrl.CreateFlavor)
	r.GET("/flavors", ctrl.ListFlavors)
	r.PATCH("/flavors/:flavor_id", ctrl.UpdateFlavor)
	r.DELETE("/flavors/:flavor_id", ctrl.DeleteFlavor)
	r.POST("/flavors/import-defaults", ctrl.ImportDefaultFlavors)
	r.POST("/materials", ctrl.CreateMaterial)
	r.DELETE("/materials/:material_id", ctrl.DeleteMaterial)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
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

func TestFlavorEndpoints(t *testing.T) {
	r := setupCatalogRouter(t)

	// Create
	w := doJSON(t, r, http.MethodPost, "/flavors", gin.H{"name": "Vanilla"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status bool          `json:"status"`
		Data   models.Flavor `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	firstID := resp.Data.ID
	assert.NotZero(t, firstID)

	// Create lagi beda kapitalisasi: 201 dengan record yang sama, bukan error
	w = doJSON(t, r, http.MethodPost, "/flavors", gin.H{"name": "VANILLA"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, firstID, resp.Data.ID)

	// Nama kosong ditolak binding
	w = doJSON(t, r, http.MethodPost, "/flavors", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Update id yang tidak ada -> 404
	w = doJSON(t, r, http.MethodPatch, "/flavors/999", gin.H{"name": "Mocha"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Delete dua kali: dua-duanya 200
	w = doJSON(t, r, http.MethodDelete, "/flavors/"+itoa(firstID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/flavors/"+itoa(firstID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Id bukan angka -> 400
	w = doJSON(t, r, http.MethodDelete, "/flavors/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportDefaultFlavorsEndpoint(t *testing.T) {
	r := setupCatalogRouter(t)

	var resp struct {
		Data []models.Flavor `json:"data"`
	}
	w := doJSON(t, r, http.MethodPost, "/flavors/import-defaults", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 9)

	// Import ulang: tetap 9
	w = doJSON(t, r, http.MethodPost, "/flavors/import-defaults", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 9)
}

func TestMaterialEndpoints(t *testing.T) {
	r := setupCatalogRouter(t)

	var resp struct {
		Data models.Material `json:"data"`
	}
	w := doJSON(t, r, http.MethodPost, "/materials", gin.H{"name": "Cup 16oz"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pcs", resp.Data.Unit) // default unit

	w = doJSON(t, r, http.MethodDelete, "/materials/"+itoa(resp.Data.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
