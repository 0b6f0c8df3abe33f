package entity

import "time"

// Customer representa un cliente del negocio.
// Points es el saldo cacheado de fidelidad: una proyección del ledger,
// actualizada únicamente en la ruta de append (nunca escrita por fuera).
type Customer struct {
	ID         string
	BusinessID string
	Name       string
	TaxID      string
	Email      string
	Phone      string
	Points     int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
