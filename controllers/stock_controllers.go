package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/utils"
)

type StockController struct {
	stock *services.StockService
}

func NewStockController(stock *services.StockService) *StockController {
	return &StockController{stock: stock}
}

func (sc *StockController) GetAllStock(c *gin.Context) {
	records, err := sc.stock.List()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of stock records", records)
}

// SetStock -> override administratif dari stock-adjustment UI
func (sc *StockController) SetStock(c *gin.Context) {
	var body struct {
		ItemType string  `json:"item_type" binding:"required"`
		ItemID   uint    `json:"item_id" binding:"required"`
		Quantity float64 `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	rec, err := sc.stock.SetQuantity(body.ItemType, body.ItemID, body.Quantity)
	if err != nil {
		if errors.Is(err, services.ErrInvalidItemType) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Stock updated", rec)
}
