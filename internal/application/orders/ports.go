package orders

import (
	"context"
	"time"

	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de ventas:
// cualquier error en fn revierte la transacción completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		materialRepo repository.RawMaterialRepository,
		orderRepo repository.OrderRepository,
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
	) error) error
}

// LoyaltyUseCase integra la acumulación de puntos dentro de la transacción del
// caller. Si retorna error, el caller debe hacer rollback.
type LoyaltyUseCase interface {
	AccrueInTx(
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
		customerID, orderID string,
		points int64,
		description string,
		now time.Time,
	) error
}
