package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant es la unidad vendible de un producto (tamaño, sabor, presentación)
// con su propio precio de venta y costo.
type ProductVariant struct {
	ID        string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Cost      decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
