package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE); toda mutación de stock
// debe pasar por AdjustStock bajo ese bloqueo, nunca por escritura directa.
type ProductRepository interface {
	GetByID(id string) (*entity.Product, error)
	GetForUpdate(id string) (*entity.Product, error)
	AdjustStock(id string, delta decimal.Decimal) error
}
