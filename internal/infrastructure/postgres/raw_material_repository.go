package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo implementación de RawMaterialRepository (usable con pool o tx).
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

// GetByID obtiene una materia prima por ID.
func (r *RawMaterialRepo) GetByID(id string) (*entity.RawMaterial, error) {
	query := `
		SELECT id, business_id, name, unit, stock_quantity, created_at, updated_at
		FROM raw_materials WHERE id = $1`
	var m entity.RawMaterial
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.BusinessID, &m.Name, &m.Unit, &m.StockQuantity, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return &m, nil
}

// GetForUpdate obtiene la materia prima y bloquea la fila (SELECT FOR UPDATE).
func (r *RawMaterialRepo) GetForUpdate(id string) (*entity.RawMaterial, error) {
	query := `
		SELECT id, business_id, name, unit, stock_quantity, created_at, updated_at
		FROM raw_materials WHERE id = $1
		FOR UPDATE`
	var m entity.RawMaterial
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.BusinessID, &m.Name, &m.Unit, &m.StockQuantity, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material for update: %w", err)
	}
	return &m, nil
}

// AdjustQuantity aplica un delta a la cantidad en un único UPDATE condicional:
// la condición `stock_quantity + delta >= 0` garantiza que la cantidad nunca
// queda negativa. Llamar siempre bajo el bloqueo ya tomado por GetForUpdate.
func (r *RawMaterialRepo) AdjustQuantity(id string, delta decimal.Decimal) error {
	query := `
		UPDATE raw_materials
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity + $2 >= 0`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust raw material quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("adjust raw material quantity %s: %w", id, domain.ErrInsufficientStock)
	}
	return nil
}
