package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-engine/internal/application/loyalty"
	"github.com/jhoicas/pos-engine/internal/application/orders"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateOrder *orders.CreateOrderUseCase
	DeleteOrder *orders.DeleteOrderUseCase
	Loyalty     *loyalty.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todas las rutas del motor requieren
// Bearer Token; la eliminación de ventas exige además el rol admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.DeleteOrder)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Delete("/:id", RequireRole("admin"), orderHandler.Delete)

	customers := protected.Group("/customers")
	loyaltyHandler := NewLoyaltyHandler(deps.Loyalty)
	customers.Get("/:id/points", loyaltyHandler.GetBalance)
	customers.Post("/:id/points/redeem", loyaltyHandler.Redeem)
	customers.Post("/:id/points/reconcile", loyaltyHandler.Reconcile)
}
