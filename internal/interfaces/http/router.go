package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Almacen-api/pkg/jwt"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	Movements   *inventory.RegisterMovementUseCase
	StockQuery  *inventory.StockQueryUseCase
	Import      *inventory.ImportUseCase
	Orders      *sales.OrderUseCase
	Fulfillment *sales.FulfillmentUseCase
	Receipts    *sales.ReceiptUseCase
	Metrics     *metrics.Registry // nil = sin /metrics
	Log         *logger.Logger
	JWTSecret   string
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.Metrics != nil {
		app.Use(requestMetrics(deps.Metrics))
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")
	orderHandler := NewOrderHandler(deps.Orders, deps.Fulfillment, log)

	// Tienda web (público)
	api.Post("/storefront/orders", orderHandler.CreateFromStorefront)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleVendedor)

	// Inventario
	inv := protected.Group("/inventory")
	invHandler := NewInventoryHandler(deps.Movements, deps.StockQuery, deps.Import, log)
	inv.Post("/arrivals", warehouse, invHandler.RecordArrival)
	inv.Post("/departures", warehouse, invHandler.RecordDeparture)
	inv.Post("/adjustments", warehouse, invHandler.AdjustStock)
	inv.Post("/import", warehouse, invHandler.Import)
	inv.Get("/movements", staff, invHandler.ListMovements)
	inv.Get("/stock", staff, invHandler.ListStock)
	inv.Get("/stock/low-count", staff, invHandler.LowStockCount)
	inv.Get("/stock/:productId", staff, invHandler.GetStock)
	inv.Put("/stock/:productId/min-level", warehouse, invHandler.SetMinLevel)
	inv.Get("/stock/:productId/movements", staff, invHandler.ProductMovements)
	inv.Get("/stock/:productId/ledger-check", warehouse, invHandler.VerifyLedger)

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, log)
	products.Get("/", staff, productHandler.List)
	products.Post("/", warehouse, productHandler.Create)
	products.Get("/:id", staff, productHandler.GetByID)
	products.Put("/:id", warehouse, productHandler.Update)
	products.Delete("/:id", warehouse, productHandler.Deactivate)
	products.Post("/:id/activate", warehouse, productHandler.Activate)

	// Pedidos
	orders := protected.Group("/orders")
	orders.Get("/", staff, orderHandler.List)
	orders.Post("/", sellers, orderHandler.Create)
	orders.Get("/:id", staff, orderHandler.GetByID)
	orders.Post("/:id/processing", sellers, orderHandler.StartProcessing)
	orders.Post("/:id/cancel", sellers, orderHandler.Cancel)
	orders.Post("/:id/complete", sellers, orderHandler.Complete)
	orders.Put("/:id/documents", sellers, orderHandler.AttachDocument)

	// Ventas
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Fulfillment, deps.Receipts, log)
	salesGroup.Get("/", staff, saleHandler.List)
	salesGroup.Post("/", sellers, saleHandler.Create)
	salesGroup.Get("/:id", staff, saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", staff, saleHandler.Receipt)
}

// requestMetrics cuenta peticiones por método, ruta registrada y código.
func requestMetrics(reg *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		reg.HTTPRequest(c.Method(), c.Route().Path, status)
		return err
	}
}
