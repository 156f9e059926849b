package models

import "time"

// Arah transaksi kas
const (
	TxTypeInflow  = "INFLOW"
	TxTypeOutflow = "OUTFLOW"
)

// Kategori transaksi kas
const (
	TxCategoryOrderPayment   = "ORDER_PAYMENT"
	TxCategoryCashDeposit    = "CASH_DEPOSIT"
	TxCategoryStockPurchase  = "STOCK_PURCHASE"
	TxCategoryExpense        = "EXPENSE"
	TxCategoryRefund         = "REFUND"
	TxCategoryCashAdjustment = "CASH_ADJUSTMENT"
)

// CashFlowTransaction -> entri ledger kas. Append-only: tidak pernah di-update
// atau dihapus. Amount selalu disimpan non-negatif, arah uang ditentukan Type.
// Saldo laci TIDAK disimpan sebagai state; selalu dihitung ulang dari ledger.
type CashFlowTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RefNumber   string    `gorm:"type:varchar(30);uniqueIndex" json:"ref_number"`
	Type        string    `gorm:"type:varchar(10);not null" json:"type"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Category    string    `gorm:"type:varchar(30);not null" json:"category"`
	OrderID     *uint     `gorm:"index" json:"order_id,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   string    `gorm:"type:varchar(100)" json:"created_by"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func ValidTxType(t string) bool {
	return t == TxTypeInflow || t == TxTypeOutflow
}

func ValidTxCategory(c string) bool {
	switch c {
	case TxCategoryOrderPayment, TxCategoryCashDeposit, TxCategoryStockPurchase,
		TxCategoryExpense, TxCategoryRefund, TxCategoryCashAdjustment:
		return true
	}
	return false
}
