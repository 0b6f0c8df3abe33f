package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-engine/internal/domain"
)

// nullIfEmpty convierte "" en NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// isLockConflict verifica si un error es un deadlock (40P01) o un timeout de
// espera de bloqueo (55P03). Ambos son reintentables por el caller.
func isLockConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40P01" || pgErr.Code == "55P03"
	}
	return false
}

// translateLockErr convierte conflictos de bloqueo en ErrConcurrencyConflict.
// Mantiene separada la contención (reintentable) del faltante de stock
// (regla de negocio, terminal): nunca comparten ruta de error.
func translateLockErr(err error) error {
	if err == nil {
		return nil
	}
	if isLockConflict(err) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
	}
	return err
}
