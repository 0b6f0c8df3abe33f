package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas más allá de decimal).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientPoints  = errors.New("puntos insuficientes")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar")
)

// Tipos de recurso consumible por una venta.
const (
	ResourceKindProduct     = "product"
	ResourceKindRawMaterial = "raw_material"
)

// StockShortageError detalla el primer faltante encontrado al validar una venta.
// Satisface errors.Is(err, ErrInsufficientStock).
type StockShortageError struct {
	ResourceKind string
	ResourceName string
	Required     decimal.Decimal
	Available    decimal.Decimal
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente de %s %q: requerido %s, disponible %s",
		e.ResourceKind, e.ResourceName, e.Required, e.Available)
}

func (e *StockShortageError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PointsShortageError detalla un canje rechazado por saldo insuficiente.
// Satisface errors.Is(err, ErrInsufficientPoints).
type PointsShortageError struct {
	CustomerID string
	Required   int64
	Available  int64
}

func (e *PointsShortageError) Error() string {
	return fmt.Sprintf("puntos insuficientes para cliente %s: requerido %d, disponible %d",
		e.CustomerID, e.Required, e.Available)
}

func (e *PointsShortageError) Is(target error) bool {
	return target == ErrInsufficientPoints
}
