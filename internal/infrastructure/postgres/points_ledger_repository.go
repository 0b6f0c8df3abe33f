package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

var _ repository.PointsLedgerRepository = (*PointsLedgerRepo)(nil)

// PointsLedgerRepo implementación de PointsLedgerRepository (usable con pool o tx).
// customer_points_log es append-only: este adaptador no expone UPDATE ni DELETE.
type PointsLedgerRepo struct {
	q Querier
}

// NewPointsLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPointsLedgerRepository(q Querier) *PointsLedgerRepo {
	return &PointsLedgerRepo{q: q}
}

// Append agrega una fila al ledger.
func (r *PointsLedgerRepo) Append(entry *entity.PointsEntry) error {
	query := `
		INSERT INTO customer_points_log (id, customer_id, order_id, points_change, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CustomerID, nullIfEmpty(entry.OrderID),
		entry.PointsChange, entry.Description, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append points entry: %w", err)
	}
	return nil
}

// SumByCustomer recomputa el saldo como la suma de todos los deltas del ledger.
func (r *PointsLedgerRepo) SumByCustomer(customerID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(points_change), 0)
		FROM customer_points_log WHERE customer_id = $1`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, customerID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum points entries: %w", err)
	}
	return sum, nil
}

// ListByCustomer lista los movimientos más recientes del cliente.
func (r *PointsLedgerRepo) ListByCustomer(customerID string, limit int) ([]*entity.PointsEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, customer_id, COALESCE(order_id, ''), points_change, description, created_at
		FROM customer_points_log WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list points entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.PointsEntry
	for rows.Next() {
		var e entity.PointsEntry
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.OrderID,
			&e.PointsChange, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan points entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points entries: %w", err)
	}
	return entries, nil
}
