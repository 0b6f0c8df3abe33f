package repository

import "github.com/jhoicas/pos-engine/internal/domain/entity"

// BusinessRepository define el puerto de lectura para el negocio (tenant).
type BusinessRepository interface {
	GetByID(id string) (*entity.Business, error)
}
