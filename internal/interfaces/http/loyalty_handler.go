package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-engine/internal/application/dto"
	"github.com/jhoicas/pos-engine/internal/application/loyalty"
	"github.com/jhoicas/pos-engine/internal/domain"
)

// LoyaltyHandler maneja las peticiones HTTP de puntos de fidelidad (protegido).
type LoyaltyHandler struct {
	uc *loyalty.UseCase
}

// NewLoyaltyHandler construye el handler.
func NewLoyaltyHandler(uc *loyalty.UseCase) *LoyaltyHandler {
	return &LoyaltyHandler{uc: uc}
}

// GetBalance godoc
// @Summary      Saldo de puntos y movimientos recientes
// @Tags         loyalty
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.PointsBalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/points [get]
func (h *LoyaltyHandler) GetBalance(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetBalance(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

// Redeem godoc
// @Summary      Canjear puntos
// @Description  Verifica el saldo cacheado bajo bloqueo de fila, agrega la fila
//
//	negativa al ledger y decrementa el cache.
//
// @Tags         loyalty
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.RedeemPointsRequest  true  "points, description"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/points/redeem [post]
func (h *LoyaltyHandler) Redeem(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	userID := GetUserID(c)
	if businessID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RedeemPointsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Redeem(c.Context(), businessID, userID, c.Params("id"), in.Points, in.Description); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "puntos canjeados"})
}

// Reconcile godoc
// @Summary      Reconciliar el saldo cacheado contra el ledger
// @Tags         loyalty
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/points/reconcile [post]
func (h *LoyaltyHandler) Reconcile(c *fiber.Ctx) error {
	businessID := GetBusinessID(c)
	if businessID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Reconcile(c.Context(), businessID, c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(resp)
}

func (h *LoyaltyHandler) mapError(c *fiber.Ctx, err error) error {
	var shortage *domain.PointsShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_POINTS", Message: shortage.Error()})
	}
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RETRY", Message: "conflicto de concurrencia, reintentar"})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "cliente no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
