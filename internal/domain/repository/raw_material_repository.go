package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/domain/entity"
)

// RawMaterialRepository define el puerto de persistencia para materias primas.
// Mismo contrato de bloqueo que ProductRepository: GetForUpdate y luego
// AdjustQuantity dentro de la misma transacción.
type RawMaterialRepository interface {
	GetByID(id string) (*entity.RawMaterial, error)
	GetForUpdate(id string) (*entity.RawMaterial, error)
	AdjustQuantity(id string, delta decimal.Decimal) error
}
