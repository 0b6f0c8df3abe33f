package repository

import "github.com/jhoicas/pos-engine/internal/domain/entity"

// CustomerRepository define el puerto de persistencia para Customer.
// AddPoints y SetPoints escriben el saldo cacheado; solo el caso de uso de
// fidelidad los invoca, siempre junto a un append en el ledger.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
	GetForUpdate(id string) (*entity.Customer, error)
	AddPoints(id string, delta int64) error
	SetPoints(id string, points int64) error
}
