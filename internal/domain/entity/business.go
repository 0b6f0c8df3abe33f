package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business representa el negocio (tenant). Toda entidad vendible pertenece a un negocio.
// PointsUnitValue: unidades monetarias necesarias para acumular 1 punto de fidelidad.
type Business struct {
	ID              string
	Name            string
	PointsUnitValue decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
