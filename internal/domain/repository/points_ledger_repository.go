package repository

import "github.com/jhoicas/pos-engine/internal/domain/entity"

// PointsLedgerRepository define el puerto del ledger de puntos.
// Append es la única operación de escritura: el ledger es la fuente de verdad
// y nunca se actualiza ni se borra.
type PointsLedgerRepository interface {
	Append(entry *entity.PointsEntry) error
	SumByCustomer(customerID string) (int64, error)
	ListByCustomer(customerID string, limit int) ([]*entity.PointsEntry, error)
}
