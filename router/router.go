package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/cafe-pos/controllers"
	"github.com/yeremiapane/cafe-pos/events"
	"github.com/yeremiapane/cafe-pos/middlewares"
	"github.com/yeremiapane/cafe-pos/services"
	"github.com/yeremiapane/cafe-pos/storage"
)

// Services mengikat semua service engine untuk di-route; dibangun sekali di
// main (atau di test) dan dioper by reference.
type Services struct {
	Catalog   *services.CatalogService
	Stock     *services.StockService
	CashFlow  *services.CashFlowService
	Orders    *services.OrderService
	Migration *services.MigrationService
	Hub       *events.Hub
}

// NewServices merakit service engine di atas store aktif
func NewServices(store storage.Store, fallback storage.Store, hub *events.Hub) *Services {
	stock := services.NewStockService(store, hub)
	cashflow := services.NewCashFlowService(store, hub)
	svcs := &Services{
		Catalog:  services.NewCatalogService(store),
		Stock:    stock,
		CashFlow: cashflow,
		Orders:   services.NewOrderService(store, stock, cashflow, hub),
		Hub:      hub,
	}
	if fallback != nil {
		svcs.Migration = services.NewMigrationService(fallback, store)
	}
	return svcs
}

func SetupRouter(svcs *Services) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	catalogCtrl := controllers.NewCatalogController(svcs.Catalog)
	productCtrl := controllers.NewProductController(svcs.Catalog)
	orderCtrl := controllers.NewOrderController(svcs.Orders)
	stockCtrl := controllers.NewStockController(svcs.Stock)
	cashflowCtrl := controllers.NewCashFlowController(svcs.CashFlow)

	// Catalog
	r.POST("/products", productCtrl.CreateProduct)
	r.GET("/products", productCtrl.GetAllProducts)
	r.GET("/products/:product_id", productCtrl.GetProductByID)
	r.PATCH("/products/:product_id", productCtrl.UpdateProduct)
	r.DELETE("/products/:product_id", productCtrl.DeleteProduct)

	r.POST("/flavors", catalogCtrl.CreateFlavor)
	r.GET("/flavors", catalogCtrl.ListFlavors)
	r.PATCH("/flavors/:flavor_id", catalogCtrl.UpdateFlavor)
	r.DELETE("/flavors/:flavor_id", catalogCtrl.DeleteFlavor)
	r.POST("/flavors/import-defaults", catalogCtrl.ImportDefaultFlavors)

	r.POST("/materials", catalogCtrl.CreateMaterial)
	r.GET("/materials", catalogCtrl.ListMaterials)
	r.PATCH("/materials/:material_id", catalogCtrl.UpdateMaterial)
	r.DELETE("/materials/:material_id", catalogCtrl.DeleteMaterial)

	r.POST("/ingredients", catalogCtrl.CreateIngredient)
	r.GET("/ingredients", catalogCtrl.ListIngredients)
	r.PATCH("/ingredients/:ingredient_id", catalogCtrl.UpdateIngredient)
	r.DELETE("/ingredients/:ingredient_id", catalogCtrl.DeleteIngredient)

	r.POST("/addons", catalogCtrl.CreateAddon)
	r.GET("/addons", catalogCtrl.ListAddons)
	r.PATCH("/addons/:addon_id", catalogCtrl.UpdateAddon)
	r.DELETE("/addons/:addon_id", catalogCtrl.DeleteAddon)

	// Orders
	r.POST("/orders", orderCtrl.CreateOrder)
	r.GET("/orders", orderCtrl.GetAllOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	// Stock
	r.GET("/stocks", stockCtrl.GetAllStock)
	r.PUT("/stocks", stockCtrl.SetStock)

	// Cash flow
	r.POST("/cashflow/inflow", cashflowCtrl.RecordInflow)
	r.POST("/cashflow/expense", cashflowCtrl.RecordExpense)
	r.GET("/cashflow/balance", cashflowCtrl.GetDrawerBalance)
	r.PUT("/cashflow/balance", cashflowCtrl.SetDrawerBalance)
	r.GET("/cashflow/summary", cashflowCtrl.GetSummary)
	r.GET("/cashflow/transactions", cashflowCtrl.ListTransactions)

	// Migration (hanya saat fallback store tersedia)
	if svcs.Migration != nil {
		migrationCtrl := controllers.NewMigrationController(svcs.Migration)
		r.GET("/migration/status", migrationCtrl.GetStatus)
		r.POST("/migration/run", migrationCtrl.RunMigration)
	}

	// Events (websocket)
	if svcs.Hub != nil {
		eventsCtrl := controllers.NewEventsController(svcs.Hub)
		r.GET("/ws", eventsCtrl.Subscribe)
	}

	return r
}
