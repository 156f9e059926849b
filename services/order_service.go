package services

import (
	"fmt"

	"github.com/yeremiapane/cafe-pos/events"
	"github.com/yeremiapane/cafe-pos/models"
	"github.com/yeremiapane/cafe-pos/storage"
	"github.com/yeremiapane/cafe-pos/utils"
)

// CartAddon -> add-on terpilih untuk satu line item
type CartAddon struct {
	AddonID  uint `json:"addon_id"`
	Quantity int  `json:"quantity"`
}

type CartLine struct {
	ProductID uint        `json:"product_id"`
	SizeID    uint        `json:"size_id"`
	FlavorID  uint        `json:"flavor_id,omitempty"`
	Quantity  int         `json:"quantity"`
	Addons    []CartAddon `json:"addons,omitempty"`
}

type Cart struct {
	OrderType string     `json:"order_type"`
	Paid      float64    `json:"paid"`
	CreatedBy string     `json:"created_by"`
	Lines     []CartLine `json:"items"`
}

// OrderService adalah pipeline commit order: validasi -> ekspansi resep ->
// potong stok -> simpan order (snapshot immutable) -> catat pembayaran.
// Potong stok, simpan order, dan append ledger berjalan dalam SATU unit of
// work; di backend transaksional semuanya apply atau tidak sama sekali.
type OrderService struct {
	store    storage.Store
	stock    *StockService
	cashflow *CashFlowService
	hub      *events.Hub
}

func NewOrderService(store storage.Store, stock *StockService, cashflow *CashFlowService, hub *events.Hub) *OrderService {
	return &OrderService{store: store, stock: stock, cashflow: cashflow, hub: hub}
}

// expansion -> hasil antara: snapshot item + entri konsumsi + total
type expansion struct {
	items   []models.OrderItemSnapshot
	entries []DeductionEntry
	total   float64
}

// expand menerjemahkan setiap cart line menjadi snapshot item (nama/harga
// dibekukan) dan entri konsumsi: resep size dikali jumlah unit yang dipesan,
// add-on sebagai unit langsung tanpa resep.
func (s *OrderService) expand(cart Cart) (*expansion, error) {
	exp := &expansion{}
	for idx, line := range cart.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive", idx+1)
		}
		product, err := s.store.ProductByID(line.ProductID)
		if err == storage.ErrNotFound {
			return nil, fmt.Errorf("line %d: product %d not found", idx+1, line.ProductID)
		} else if err != nil {
			return nil, err
		}

		var size *models.Size
		for i := range product.Sizes {
			if product.Sizes[i].ID == line.SizeID {
				size = &product.Sizes[i]
				break
			}
		}
		if size == nil {
			return nil, fmt.Errorf("line %d: size %d does not belong to product %q", idx+1, line.SizeID, product.Name)
		}

		item := models.OrderItemSnapshot{
			ProductID:   product.ID,
			ProductName: product.Name,
			SizeID:      size.ID,
			SizeName:    size.Name,
			SizePrice:   size.Price,
			Quantity:    line.Quantity,
		}

		if line.FlavorID != 0 {
			for _, f := range product.Flavors {
				if f.ID == line.FlavorID {
					item.FlavorID = f.ID
					item.FlavorName = f.Name
					break
				}
			}
			if item.FlavorID == 0 {
				return nil, fmt.Errorf("line %d: flavor %d is not available for product %q", idx+1, line.FlavorID, product.Name)
			}
		}

		qty := float64(line.Quantity)
		for _, m := range size.Materials {
			exp.entries = append(exp.entries, DeductionEntry{
				ItemType: models.ItemTypeMaterial,
				ItemID:   m.MaterialID,
				Quantity: m.Qty * qty,
			})
		}
		for _, ing := range size.Ingredients {
			exp.entries = append(exp.entries, DeductionEntry{
				ItemType: models.ItemTypeIngredient,
				ItemID:   ing.IngredientID,
				Quantity: ing.Qty * qty,
			})
		}

		subtotal := size.Price * qty
		for _, ca := range line.Addons {
			if ca.Quantity <= 0 {
				continue
			}
			addon, err := s.store.AddonByID(ca.AddonID)
			if err == storage.ErrNotFound {
				return nil, fmt.Errorf("line %d: addon %d not found", idx+1, ca.AddonID)
			} else if err != nil {
				return nil, err
			}
			item.Addons = append(item.Addons, models.OrderAddonSnapshot{
				AddonID:  addon.ID,
				Name:     addon.Name,
				Price:    addon.Price,
				Quantity: ca.Quantity,
			})
			subtotal += addon.Price * float64(ca.Quantity)
			exp.entries = append(exp.entries, DeductionEntry{
				ItemType: models.ItemTypeAddon,
				ItemID:   addon.ID,
				Quantity: float64(ca.Quantity),
			})
		}

		item.Subtotal = subtotal
		exp.total += subtotal
		exp.items = append(exp.items, item)
	}
	return exp, nil
}

// Commit menjalankan pipeline untuk satu cart dan mengembalikan order yang
// tersimpan. Cart dengan paid == 0 diterima sebagai bayar-nanti (tanpa entri
// ledger); pembayaran parsial ditolak.
func (s *OrderService) Commit(cart Cart) (*models.Order, error) {
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if cart.OrderType == "" {
		cart.OrderType = models.OrderTypeDineIn
	}
	if cart.OrderType != models.OrderTypeDineIn && cart.OrderType != models.OrderTypeTakeOut {
		return nil, fmt.Errorf("unknown order type %q", cart.OrderType)
	}

	exp, err := s.expand(cart)
	if err != nil {
		return nil, err
	}

	if cart.Paid > 0 && cart.Paid < exp.total {
		return nil, fmt.Errorf("%w: total %.2f, paid %.2f", ErrInsufficientPayment, exp.total, cart.Paid)
	}

	order := &models.Order{
		RefNumber:   utils.NewRefNumber("ORD"),
		OrderType:   cart.OrderType,
		OrderStatus: models.OrderStatusQueuing,
		Total:       exp.total,
		Paid:        cart.Paid,
	}
	if cart.Paid > 0 {
		order.Change = cart.Paid - exp.total
	}
	if err := order.SetItems(exp.items); err != nil {
		return nil, err
	}

	err = s.store.RunInUnitOfWork(func(st storage.Store) error {
		if _, err := s.stock.DeductIn(st, exp.entries); err != nil {
			return err
		}
		if err := st.CreateOrder(order); err != nil {
			return err
		}
		if cart.Paid > 0 {
			payment := &models.CashFlowTransaction{
				Type:        models.TxTypeInflow,
				Amount:      cart.Paid,
				Category:    models.TxCategoryOrderPayment,
				OrderID:     &order.ID,
				Description: fmt.Sprintf("Payment for order %s", order.RefNumber),
				CreatedBy:   cart.CreatedBy,
			}
			if err := s.cashflow.AppendIn(st, payment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %s committed: total %.2f, paid %.2f, change %.2f",
		order.RefNumber, order.Total, order.Paid, order.Change)
	s.hub.Broadcast(events.EventOrderCreated, order)
	return order, nil
}

// UpdateStatus mengubah status order saja. Potong stok dan append ledger
// terjadi tepat satu kali saat commit dan TIDAK diulang di sini.
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	switch status {
	case models.OrderStatusQueuing, models.OrderStatusServed, models.OrderStatusCancelled:
	default:
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.store.OrderByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	order.OrderStatus = status
	if err := s.store.UpdateOrder(order); err != nil {
		return nil, err
	}
	s.hub.Broadcast(events.EventOrderStatus, order)
	return order, nil
}

func (s *OrderService) Get(id uint) (*models.Order, error) {
	order, err := s.store.OrderByID(id)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	return order, err
}

func (s *OrderService) List(filter storage.OrderFilter) ([]models.Order, error) {
	if filter == "" {
		filter = storage.OrderFilterAll
	}
	return s.store.ListOrders(filter)
}
