package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/cafe-pos/events"
	"github.com/yeremiapane/cafe-pos/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Satu terminal per device, origin lokal saja
	CheckOrigin: func(r *http.Request) bool { return true },
}

type EventsController struct {
	hub *events.Hub
}

func NewEventsController(hub *events.Hub) *EventsController {
	return &EventsController{hub: hub}
}

// Subscribe -> upgrade koneksi ke websocket dan daftarkan ke hub.
// Client menerima event stock_low / stock_shortfall / order_created /
// cashflow_appended / drawer_adjusted sebagai JSON.
func (ec *EventsController) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		return
	}
	ec.hub.RegisterClient(conn)

	go func() {
		defer ec.hub.UnregisterClient(conn)
		for {
			// Engine tidak menerima perintah lewat websocket; loop baca
			// hanya untuk mendeteksi close
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
