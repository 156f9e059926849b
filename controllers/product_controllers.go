package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/utils"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// CreateProduct -> buat produk beserta sizes (resep per unit) dan flavor
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var spec services.ProductSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := pc.catalog.CreateProduct(spec)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "product_id")
	if !ok {
		return
	}
	product, err := pc.catalog.GetProduct(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if product == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("product not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "product_id")
	if !ok {
		return
	}
	var spec services.ProductSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := pc.catalog.UpdateProduct(id, spec)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if product == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("product not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "product_id")
	if !ok {
		return
	}
	deleted, err := pc.catalog.DeleteProduct(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product deleted", gin.H{"deleted": deleted})
}

func (pc *ProductController) GetAllProducts(c *gin.Context) {
	products, err := pc.catalog.ListProducts()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", products)
}
