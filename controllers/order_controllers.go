package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder -> commit satu cart menjadi order (potong stok + catat
// pembayaran dalam satu unit of work)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var cart services.Cart
	if err := c.ShouldBindJSON(&cart); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.orders.Commit(cart)
	if err != nil {
		if errors.Is(err, services.ErrEmptyCart) ||
			errors.Is(err, services.ErrInsufficientPayment) ||
			errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.ErrorLogger.Printf("Order commit failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, fmt.Errorf("order could not be processed"))
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	order, err := oc.orders.Get(id)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if order == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}
	items, err := order.Items()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", gin.H{"order": order, "items": items})
}

// UpdateOrderStatus -> transisi status saja (QUEUING -> SERVED, dst); tidak
// pernah mengulang potong stok atau append ledger
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "order_id")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := oc.orders.UpdateStatus(id, body.Status)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOrderStatus) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if order == nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetAllOrders -> ?filter=all|today
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	filter := storage.OrderFilter(c.DefaultQuery("filter", "all"))
	if filter != storage.OrderFilterAll && filter != storage.OrderFilterToday {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown filter %q", filter))
		return
	}
	orders, err := oc.orders.List(filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}
