package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/pos-engine/internal/application/loyalty"
	"github.com/jhoicas/pos-engine/internal/application/orders"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// Ensure TxRunner implements orders.TxRunner and loyalty.TxRunner.
var _ orders.TxRunner = (*TxRunner)(nil)
var _ loyalty.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Aplica
// lock_timeout por transacción para que la contención aborte con 55P03 en vez
// de esperar indefinidamente; el cliente puede desconectarse sin dejar estado
// a medias (la tx se revierte completa).
type TxRunner struct {
	pool          *pgxpool.Pool
	lockTimeoutMS int
}

// NewTxRunner construye el runner. lockTimeoutMS = 0 desactiva el timeout.
func NewTxRunner(pool *pgxpool.Pool, lockTimeoutMS int) *TxRunner {
	return &TxRunner{pool: pool, lockTimeoutMS: lockTimeoutMS}
}

// Run inicia una transacción con los repos del motor de ventas, ejecuta fn y
// hace Commit o Rollback. Los conflictos de bloqueo salen como
// ErrConcurrencyConflict, separados de los errores de negocio.
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	materialRepo repository.RawMaterialRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.PointsLedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.applyLockTimeout(ctx, tx); err != nil {
		return err
	}

	productRepo := NewProductRepository(tx)
	materialRepo := NewRawMaterialRepository(tx)
	orderRepo := NewOrderRepository(tx)
	customerRepo := NewCustomerRepository(tx)
	ledgerRepo := NewPointsLedgerRepository(tx)

	if err := fn(productRepo, materialRepo, orderRepo, customerRepo, ledgerRepo); err != nil {
		return translateLockErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateLockErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunLoyalty inicia una transacción con los repos de fidelidad (canje y
// reconciliación corren fuera de la transacción de venta).
func (r *TxRunner) RunLoyalty(ctx context.Context, fn func(
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.PointsLedgerRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.applyLockTimeout(ctx, tx); err != nil {
		return err
	}

	customerRepo := NewCustomerRepository(tx)
	ledgerRepo := NewPointsLedgerRepository(tx)

	if err := fn(customerRepo, ledgerRepo); err != nil {
		return translateLockErr(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return translateLockErr(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// applyLockTimeout fija lock_timeout solo para esta transacción (SET LOCAL).
func (r *TxRunner) applyLockTimeout(ctx context.Context, tx pgx.Tx) error {
	if r.lockTimeoutMS <= 0 {
		return nil
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeoutMS)); err != nil {
		return fmt.Errorf("set lock_timeout: %w", err)
	}
	return nil
}
