package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-engine/internal/application/dto"
	"github.com/jhoicas/pos-engine/internal/application/orders"
	"github.com/jhoicas/pos-engine/internal/domain"
)

// OrderHandler maneja las peticiones HTTP de ventas (protegido).
type OrderHandler struct {
	createUC *orders.CreateOrderUseCase
	deleteUC *orders.DeleteOrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(createUC *orders.CreateOrderUseCase, deleteUC *orders.DeleteOrderUseCase) *OrderHandler {
	return &OrderHandler{createUC: createUC, deleteUC: deleteUC}
}

// Create godoc
// @Summary      Crear una venta
// @Description  Convierte el carrito en una venta durable: valida disponibilidad
//
//	bajo bloqueo, descuenta stock/materia prima y acumula puntos, todo atómico.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "items, customer_id opcional, metadatos de pago"
// @Success      201   {object}  dto.OrderCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.createUC.CreateOrder(c.Context(), businessID, userID, in)
	if err != nil {
		var shortage *domain.StockShortageError
		if errors.As(err, &shortage) {
			return c.Status(fiber.StatusConflict).JSON(dto.StockErrorResponse{
				Code:         "INSUFFICIENT_STOCK",
				Message:      shortage.Error(),
				ResourceKind: shortage.ResourceKind,
				ResourceName: shortage.ResourceName,
				Required:     shortage.Required,
				Available:    shortage.Available,
			})
		}
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			// Contención de bloqueos: reintentable, nunca se confunde con faltante.
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RETRY", Message: "conflicto de concurrencia, reintentar"})
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "variante, producto o cliente no encontrado"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID godoc
// @Summary      Obtener una venta con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.createUC.GetOrder(c.Context(), businessID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Eliminar una venta (admin)
// @Description  Revierte los efectos de la venta: restaura stock y materia prima
//
//	desde el snapshot de consumo y reversa los puntos acumulados.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	err := h.deleteUC.DeleteOrder(c.Context(), businessID, userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConcurrencyConflict) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RETRY", Message: "conflicto de concurrencia, reintentar"})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"message": "venta eliminada"})
}
