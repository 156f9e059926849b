package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/utils"
)

// CatalogController -> CRUD entitas katalog sederhana (flavor, material,
// ingredient, addon). Create tidak pernah gagal karena "sudah ada": nama yang
// sama dikembalikan apa adanya (dedup-on-create).
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid id"))
		return 0, false
	}
	return uint(id), true
}

/* ---------- Flavors ---------- */

func (cc *CatalogController) CreateFlavor(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	flavor, err := cc.catalog.CreateFlavor(body.Name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Flavor created", flavor)
}

func (cc *CatalogController) UpdateFlavor(c *gin.Context) {
	id, ok := parseID(c, "flavor_id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	flavor, err := cc.catalog.UpdateFlavor(id, body.Name)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if flavor == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("flavor not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Flavor updated", flavor)
}

func (cc *CatalogController) DeleteFlavor(c *gin.Context) {
	id, ok := parseID(c, "flavor_id")
	if !ok {
		return
	}
	deleted, err := cc.catalog.DeleteFlavor(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	// id yang sudah hilang tetap sukses (idempotent delete)
	utils.RespondJSON(c, http.StatusOK, "Flavor deleted", gin.H{"deleted": deleted})
}

func (cc *CatalogController) ListFlavors(c *gin.Context) {
	flavors, err := cc.catalog.ListFlavors()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of flavors", flavors)
}

func (cc *CatalogController) ImportDefaultFlavors(c *gin.Context) {
	flavors, err := cc.catalog.ImportDefaultFlavorSet()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Default flavors imported", flavors)
}

/* ---------- Materials ---------- */

func (cc *CatalogController) CreateMaterial(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
		Unit string `json:"unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	material, err := cc.catalog.CreateMaterial(body.Name, body.Unit)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Material created", material)
}

func (cc *CatalogController) UpdateMaterial(c *gin.Context) {
	id, ok := parseID(c, "material_id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
		Unit string `json:"unit"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	material, err := cc.catalog.UpdateMaterial(id, body.Name, body.Unit)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if material == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("material not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Material updated", material)
}

func (cc *CatalogController) DeleteMaterial(c *gin.Context) {
	id, ok := parseID(c, "material_id")
	if !ok {
		return
	}
	deleted, err := cc.catalog.DeleteMaterial(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Material deleted", gin.H{"deleted": deleted})
}

func (cc *CatalogController) ListMaterials(c *gin.Context) {
	materials, err := cc.catalog.ListMaterials()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of materials", materials)
}

/* ---------- Ingredients ---------- */

func (cc *CatalogController) CreateIngredient(c *gin.Context) {
	var body struct {
		Name             string  `json:"name" binding:"required"`
		Unit             string  `json:"unit"`
		PricePerPurchase float64 `json:"price_per_purchase"`
		UnitsPerPurchase float64 `json:"units_per_purchase"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ingredient, err := cc.catalog.CreateIngredient(body.Name, body.Unit, body.PricePerPurchase, body.UnitsPerPurchase)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Ingredient created", ingredient)
}

func (cc *CatalogController) UpdateIngredient(c *gin.Context) {
	id, ok := parseID(c, "ingredient_id")
	if !ok {
		return
	}
	var body struct {
		Name             string  `json:"name"`
		Unit             string  `json:"unit"`
		PricePerPurchase float64 `json:"price_per_purchase"`
		UnitsPerPurchase float64 `json:"units_per_purchase"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ingredient, err := cc.catalog.UpdateIngredient(id, body.Name, body.Unit, body.PricePerPurchase, body.UnitsPerPurchase)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if ingredient == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("ingredient not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient updated", ingredient)
}

func (cc *CatalogController) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c, "ingredient_id")
	if !ok {
		return
	}
	deleted, err := cc.catalog.DeleteIngredient(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Ingredient deleted", gin.H{"deleted": deleted})
}

func (cc *CatalogController) ListIngredients(c *gin.Context) {
	ingredients, err := cc.catalog.ListIngredients()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of ingredients", ingredients)
}

/* ---------- Addons ---------- */

func (cc *CatalogController) CreateAddon(c *gin.Context) {
	var body struct {
		Name  string  `json:"name" binding:"required"`
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	addon, err := cc.catalog.CreateAddon(body.Name, body.Price)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Addon created", addon)
}

func (cc *CatalogController) UpdateAddon(c *gin.Context) {
	id, ok := parseID(c, "addon_id")
	if !ok {
		return
	}
	var body struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	addon, err := cc.catalog.UpdateAddon(id, body.Name, body.Price)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if addon == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("addon not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Addon updated", addon)
}

func (cc *CatalogController) DeleteAddon(c *gin.Context) {
	id, ok := parseID(c, "addon_id")
	if !ok {
		return
	}
	deleted, err := cc.catalog.DeleteAddon(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Addon deleted", gin.H{"deleted": deleted})
}

func (cc *CatalogController) ListAddons(c *gin.Context) {
	addons, err := cc.catalog.ListAddons()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of addons", addons)
}
