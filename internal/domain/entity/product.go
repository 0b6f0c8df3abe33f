package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// Stock es el contador de unidades terminadas; solo aplica a productos sin receta
// (los productos con receta consumen materia prima, no su propio contador).
type Product struct {
	ID         string
	BusinessID string
	CategoryID string
	Name       string
	Stock      decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
