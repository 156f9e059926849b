package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/utils"
)

type CashFlowController struct {
	cashflow *services.CashFlowService
}

func NewCashFlowController(cashflow *services.CashFlowService) *CashFlowController {
	return &CashFlowController{cashflow: cashflow}
}

// RecordInflow -> uang masuk laci (setoran kas, dll)
func (cfc *CashFlowController) RecordInflow(c *gin.Context) {
	var body struct {
		Amount      float64 `json:"amount" binding:"required"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		CreatedBy   string  `json:"created_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tx, err := cfc.cashflow.RecordInflow(body.Amount, body.Category, body.Description, body.CreatedBy)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidTransaction) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Inflow recorded", tx)
}

// RecordExpense -> uang keluar laci
func (cfc *CashFlowController) RecordExpense(c *gin.Context) {
	var body struct {
		Amount      float64 `json:"amount" binding:"required"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		CreatedBy   string  `json:"created_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tx, err := cfc.cashflow.RecordExpense(body.Amount, body.Category, body.Description, body.CreatedBy)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) || errors.Is(err, services.ErrInvalidTransaction) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Expense recorded", tx)
}

func (cfc *CashFlowController) GetDrawerBalance(c *gin.Context) {
	balance, err := cfc.cashflow.Balance()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Drawer balance", gin.H{
		"balance":   balance,
		"formatted": utils.FormatCurrencyIDR(balance),
	})
}

// SetDrawerBalance -> bukan set langsung: selisihnya dicatat sebagai satu
// transaksi CASH_ADJUSTMENT supaya invariant fold tetap berlaku
func (cfc *CashFlowController) SetDrawerBalance(c *gin.Context) {
	var body struct {
		Target    float64 `json:"target"`
		Reason    string  `json:"reason"`
		CreatedBy string  `json:"created_by"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	tx, err := cfc.cashflow.SetBalance(body.Target, body.Reason, body.CreatedBy)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if tx == nil {
		utils.RespondJSON(c, http.StatusOK, "Balance already at target, nothing recorded", nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Drawer balance adjusted", tx)
}

// GetSummary -> ?period=today|week|month
func (cfc *CashFlowController) GetSummary(c *gin.Context) {
	summary, err := cfc.cashflow.Summary(c.DefaultQuery("period", services.PeriodToday))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cash flow summary", summary)
}

// ListTransactions -> ?limit=N (0 = semua)
func (cfc *CashFlowController) ListTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	txs, err := cfc.cashflow.List(limit)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of transactions", txs)
}
