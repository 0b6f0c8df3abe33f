package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, business_id, name, tax_id, email, phone, points, created_at, updated_at`

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.q.QueryRow(context.Background(), query, id), "get customer")
}

// GetForUpdate obtiene el cliente y bloquea la fila (SELECT FOR UPDATE).
// Requisito para canje y reconciliación: el saldo leído es el vigente.
func (r *CustomerRepo) GetForUpdate(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 FOR UPDATE`
	return r.scanCustomer(r.q.QueryRow(context.Background(), query, id), "get customer for update")
}

func (r *CustomerRepo) scanCustomer(row pgx.Row, op string) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.TaxID, &c.Email, &c.Phone,
		&c.Points, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// AddPoints suma un delta al saldo cacheado (actualización aditiva, no recomputación).
func (r *CustomerRepo) AddPoints(id string, delta int64) error {
	query := `
		UPDATE customers
		SET points = points + $2, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, delta)
	if err != nil {
		return fmt.Errorf("add customer points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("add customer points: cliente %s no existe", id)
	}
	return nil
}

// SetPoints sobreescribe el saldo cacheado. Solo lo usa la reconciliación.
func (r *CustomerRepo) SetPoints(id string, points int64) error {
	query := `
		UPDATE customers
		SET points = $2, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, points)
	if err != nil {
		return fmt.Errorf("set customer points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set customer points: cliente %s no existe", id)
	}
	return nil
}
