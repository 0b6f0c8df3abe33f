package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial es un insumo consumido por productos con receta.
type RawMaterial struct {
	ID            string
	BusinessID    string
	Name          string
	Unit          string // gr, ml, unidad, etc.
	StockQuantity decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
