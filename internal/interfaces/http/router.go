package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/ws"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	StoreUC   *usecase.StoreUseCase
	StockUC   *usecase.StockUseCase
	Movements *inventory.MovementUseCase
	Verify    *inventory.VerifyMovementUseCase
	AuthUC    *auth.AuthUseCase
	Hub       *ws.Hub
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/v1")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Métricas (público)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Notificaciones de stock (websocket; snapshot al conectar)
	app.Use("/ws/notifications", WSUpgrade)
	app.Get("/ws/notifications", websocket.New(deps.Hub.HandleConn))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stores (protegido)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Put("/:id", storeHandler.Update)
	stores.Delete("/:id", storeHandler.Delete)

	// Stock: movimientos, verificación y saldos (protegido).
	// Las escrituras sobre movimientos exigen rol de bodega; las lecturas solo token.
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Movements, deps.Verify, deps.StockUC)
	stockWrite := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	stockIn := stock.Group("/in")
	stockIn.Post("/", stockWrite, stockHandler.CreateStockIn)
	stockIn.Get("/", stockHandler.ListStockIn)
	stockIn.Get("/next-index", stockHandler.NextCodeStockIn)
	stockIn.Get("/:id", stockHandler.GetStockIn)
	stockIn.Patch("/:id", stockWrite, stockHandler.VerifyStockIn)
	stockIn.Put("/:id", stockWrite, stockHandler.UpdateStockIn)
	stockIn.Delete("/:id", stockWrite, stockHandler.DeleteStockIn)

	stockOut := stock.Group("/out")
	stockOut.Post("/", stockWrite, stockHandler.CreateStockOut)
	stockOut.Get("/", stockHandler.ListStockOut)
	stockOut.Get("/next-index", stockHandler.NextCodeStockOut)
	stockOut.Get("/:id", stockHandler.GetStockOut)
	stockOut.Patch("/:id", stockWrite, stockHandler.VerifyStockOut)
	stockOut.Put("/:id", stockWrite, stockHandler.UpdateStockOut)
	stockOut.Delete("/:id", stockWrite, stockHandler.DeleteStockOut)

	mutation := stock.Group("/mutation")
	mutation.Post("/", stockWrite, stockHandler.CreateStockMutation)
	mutation.Get("/", stockHandler.ListStockMutation)
	mutation.Get("/next-index", stockHandler.NextCodeStockMutation)
	mutation.Get("/:id", stockHandler.GetStockMutation)
	mutation.Patch("/:id", stockWrite, stockHandler.VerifyStockMutation)
	mutation.Put("/:id", stockWrite, stockHandler.UpdateStockMutation)
	mutation.Delete("/:id", stockWrite, stockHandler.DeleteStockMutation)

	stock.Get("/warehouse", stockHandler.ListWarehouseStock)
	stock.Get("/store/:id", stockHandler.ListStoreStock)
}
