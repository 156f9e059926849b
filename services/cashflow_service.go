package services

import (
	"fmt"
	"math"
	"time"

	"github.com/yeremiapane/cafe-pos/events"
	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

// Period summary
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

const recentTransactionCount = 10

// CashFlowService adalah ledger kas append-only. Saldo laci tidak pernah
// disimpan; setiap pemanggilan Balance menghitung ulang fold
// sum(INFLOW) - sum(OUTFLOW) supaya tidak ada drift.
type CashFlowService struct {
	store storage.Store
	hub   *events.Hub
}

func NewCashFlowService(store storage.Store, hub *events.Hub) *CashFlowService {
	return &CashFlowService{store: store, hub: hub}
}

type CategoryBreakdown struct {
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
}

type PeriodSummary struct {
	Period       string                       `json:"period"`
	Start        time.Time                    `json:"start"`
	TotalInflow  float64                      `json:"total_inflow"`
	TotalOutflow float64                      `json:"total_outflow"`
	Net          float64                      `json:"net"`
	ByCategory   map[string]CategoryBreakdown `json:"by_category"`
	Recent       []models.CashFlowTransaction `json:"recent"`
	Balance      float64                      `json:"balance"`
}

// Append memvalidasi lalu menulis satu transaksi ke store utama
func (s *CashFlowService) Append(tx *models.CashFlowTransaction) error {
	return s.AppendIn(s.store, tx)
}

// AppendIn menulis transaksi lewat store yang diberikan, sehingga commit order
// bisa menumpang unit of work yang sama.
func (s *CashFlowService) AppendIn(st storage.Store, tx *models.CashFlowTransaction) error {
	if !models.ValidTxType(tx.Type) || !models.ValidTxCategory(tx.Category) {
		return ErrInvalidTransaction
	}
	if tx.Amount <= 0 {
		return ErrInvalidAmount
	}
	if tx.RefNumber == "" {
		tx.RefNumber = utils.NewRefNumber("TXN")
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	if err := st.AppendTransaction(tx); err != nil {
		return err
	}
	s.hub.Broadcast(events.EventCashFlowAppended, tx)
	return nil
}

// Balance -> saldo laci, selalu dihitung dari ledger
func (s *CashFlowService) Balance() (float64, error) {
	inflow, err := s.store.SumAmountByType(models.TxTypeInflow)
	if err != nil {
		return 0, err
	}
	outflow, err := s.store.SumAmountByType(models.TxTypeOutflow)
	if err != nil {
		return 0, err
	}
	return inflow - outflow, nil
}

// RecordInflow -> uang masuk laci (setoran kas, dll)
func (s *CashFlowService) RecordInflow(amount float64, category, description, createdBy string) (*models.CashFlowTransaction, error) {
	if category == "" {
		category = models.TxCategoryCashDeposit
	}
	tx := &models.CashFlowTransaction{
		Type:        models.TxTypeInflow,
		Amount:      amount,
		Category:    category,
		Description: description,
		CreatedBy:   createdBy,
	}
	if err := s.Append(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// RecordExpense -> uang keluar laci (belanja stok, pengeluaran lain)
func (s *CashFlowService) RecordExpense(amount float64, category, description, createdBy string) (*models.CashFlowTransaction, error) {
	if category == "" {
		category = models.TxCategoryExpense
	}
	tx := &models.CashFlowTransaction{
		Type:        models.TxTypeOutflow,
		Amount:      amount,
		Category:    category,
		Description: description,
		CreatedBy:   createdBy,
	}
	if err := s.Append(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// SetBalance menyamakan saldo laci ke target dengan SATU transaksi
// CASH_ADJUSTMENT sebesar |target - saldo|. Target yang sudah sama dengan
// saldo tidak menulis apa-apa. Fold invariant tetap terjaga: saldo tidak
// pernah di-set langsung.
func (s *CashFlowService) SetBalance(target float64, reason, createdBy string) (*models.CashFlowTransaction, error) {
	current, err := s.Balance()
	if err != nil {
		return nil, err
	}
	delta := target - current
	if delta == 0 {
		return nil, nil
	}

	txType := models.TxTypeInflow
	if delta < 0 {
		txType = models.TxTypeOutflow
	}
	if reason == "" {
		reason = fmt.Sprintf("Drawer balance adjusted to %s", utils.FormatCurrencyIDR(target))
	}
	tx := &models.CashFlowTransaction{
		Type:        txType,
		Amount:      math.Abs(delta),
		Category:    models.TxCategoryCashAdjustment,
		Description: reason,
		CreatedBy:   createdBy,
	}
	if err := s.Append(tx); err != nil {
		return nil, err
	}
	s.hub.Broadcast(events.EventDrawerAdjusted, map[string]interface{}{
		"target":      target,
		"delta":       delta,
		"transaction": tx,
	})
	return tx, nil
}

// Summary membagi ledger ke jendela waktu dan melaporkan total per arah dan
// per kategori, plus N transaksi terakhir untuk tampilan dashboard.
func (s *CashFlowService) Summary(period string) (*PeriodSummary, error) {
	now := time.Now()
	var start time.Time
	switch period {
	case PeriodWeek:
		start = now.AddDate(0, 0, -7)
	case PeriodMonth:
		start = now.AddDate(0, -1, 0)
	case PeriodToday, "":
		period = PeriodToday
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	default:
		return nil, fmt.Errorf("unknown summary period %q", period)
	}

	txs, err := s.store.TransactionsSince(start)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		Period:     period,
		Start:      start,
		ByCategory: make(map[string]CategoryBreakdown),
	}
	for _, tx := range txs {
		breakdown := summary.ByCategory[tx.Category]
		if tx.Type == models.TxTypeInflow {
			summary.TotalInflow += tx.Amount
			breakdown.Inflow += tx.Amount
		} else {
			summary.TotalOutflow += tx.Amount
			breakdown.Outflow += tx.Amount
		}
		summary.ByCategory[tx.Category] = breakdown
	}
	summary.Net = summary.TotalInflow - summary.TotalOutflow

	if summary.Recent, err = s.store.ListTransactions(recentTransactionCount); err != nil {
		return nil, err
	}
	if summary.Balance, err = s.Balance(); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *CashFlowService) List(limit int) ([]models.CashFlowTransaction, error) {
	return s.store.ListTransactions(limit)
}
