package repository

import "github.com/jhoicas/pos-engine/internal/domain/entity"

// VariantRepository define el puerto de lectura para variantes vendibles.
type VariantRepository interface {
	GetByID(id string) (*entity.ProductVariant, error)
}
