package entity

import "time"

// PointsEntry es una fila del ledger de puntos (customer_points_log).
// El ledger es append-only: sin Update ni Delete; las correcciones se hacen
// con filas de reverso de signo contrario.
type PointsEntry struct {
	ID           string
	CustomerID   string
	OrderID      string // opcional: venta que originó el movimiento
	PointsChange int64  // positivo = acumulación, negativo = canje o reverso
	Description  string
	CreatedAt    time.Time
}
