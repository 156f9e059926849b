package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/cafe-pos/utils"
)

// Event types
const (
	EventOrderCreated     = "order_created"
	EventOrderStatus      = "order_status"
	EventStockLow         = "stock_low"
	EventStockShortfall   = "stock_shortfall"
	EventCashFlowAppended = "cashflow_appended"
	EventDrawerAdjusted   = "drawer_adjusted"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client dashboard/alerting dan menyiarkan event engine.
// Broadcast bersifat fire-and-forget: di luar atomicity commit order.
type Hub struct {
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// RegisterClient -> menambahkan connection ke set
func (h *Hub) RegisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = struct{}{}
}

// UnregisterClient -> melepaskan connection
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Broadcast -> kirim event ke semua client; error per-client hanya di-log.
// Aman dipanggil pada hub nil (service yang berjalan tanpa hub, mis. di test).
func (h *Hub) Broadcast(event string, data interface{}) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()

	msg, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling event %s: %v", event, err)
		return
	}

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			utils.ErrorLogger.Printf("Error sending event to client: %v", err)
			continue
		}
	}
}
