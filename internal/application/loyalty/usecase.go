package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-engine/internal/application/audit"
	"github.com/jhoicas/pos-engine/internal/application/dto"
	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repos de fidelidad.
type TxRunner interface {
	RunLoyalty(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
	) error) error
}

// UseCase administra el ledger de puntos: acumulación, canje y reconciliación.
// El ledger es la fuente de verdad; customers.points es una proyección
// actualizada transaccionalmente en la misma ruta del append.
type UseCase struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	ledgerRepo   repository.PointsLedgerRepository
	auditSink    audit.Sink
}

// NewUseCase construye el caso de uso. customerRepo y ledgerRepo van atados al
// pool y se usan solo para lecturas fuera de transacción.
func NewUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.PointsLedgerRepository,
	auditSink audit.Sink,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
		auditSink:    auditSink,
	}
}

// AccrueInTx agrega una fila positiva al ledger y suma al cache de forma
// aditiva (no recomputa el total, por throughput). Corre con los repositorios
// del caller: misma transacción que la venta que origina los puntos.
func (uc *UseCase) AccrueInTx(
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.PointsLedgerRepository,
	customerID, orderID string,
	points int64,
	description string,
	now time.Time,
) error {
	if customerID == "" || points <= 0 {
		return domain.ErrInvalidInput
	}
	entry := &entity.PointsEntry{
		ID:           uuid.New().String(),
		CustomerID:   customerID,
		OrderID:      orderID,
		PointsChange: points,
		Description:  description,
		CreatedAt:    now,
	}
	if err := ledgerRepo.Append(entry); err != nil {
		return err
	}
	return customerRepo.AddPoints(customerID, points)
}

// Redeem canjea puntos: bloquea la fila del cliente, verifica el saldo
// cacheado, agrega la fila negativa y decrementa el cache. Saldo insuficiente
// retorna *domain.PointsShortageError sin tocar el ledger.
func (uc *UseCase) Redeem(ctx context.Context, businessID, userID, customerID string, points int64, description string) error {
	if customerID == "" || points <= 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()

	err := uc.txRunner.RunLoyalty(ctx, func(
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
	) error {
		customer, err := customerRepo.GetForUpdate(customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if customer.BusinessID != businessID {
			return domain.ErrForbidden
		}
		if customer.Points < points {
			return &domain.PointsShortageError{
				CustomerID: customerID,
				Required:   points,
				Available:  customer.Points,
			}
		}
		entry := &entity.PointsEntry{
			ID:           uuid.New().String(),
			CustomerID:   customerID,
			PointsChange: -points,
			Description:  description,
			CreatedAt:    now,
		}
		if err := ledgerRepo.Append(entry); err != nil {
			return err
		}
		return customerRepo.AddPoints(customerID, -points)
	})
	if err != nil {
		uc.auditSink.Record(ctx, audit.Event{
			BusinessID: businessID,
			UserID:     userID,
			Action:     "points_redeem_failed",
			Details:    map[string]any{"customer_id": customerID, "points": points, "error": err.Error()},
		})
		return err
	}

	uc.auditSink.Record(ctx, audit.Event{
		BusinessID: businessID,
		UserID:     userID,
		Action:     "points_redeemed",
		Details:    map[string]any{"customer_id": customerID, "points": points},
	})
	return nil
}

// Reconcile recomputa el saldo como SUM(points_change) y sobreescribe el cache
// si diverge. Uso defensivo: sana drift por fallos parciales o ediciones
// manuales de datos.
func (uc *UseCase) Reconcile(ctx context.Context, businessID, customerID string) (*dto.ReconcileResponse, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidInput
	}
	var resp *dto.ReconcileResponse

	err := uc.txRunner.RunLoyalty(ctx, func(
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
	) error {
		customer, err := customerRepo.GetForUpdate(customerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		if customer.BusinessID != businessID {
			return domain.ErrForbidden
		}
		sum, err := ledgerRepo.SumByCustomer(customerID)
		if err != nil {
			return err
		}
		adjusted := sum != customer.Points
		if adjusted {
			if err := customerRepo.SetPoints(customerID, sum); err != nil {
				return err
			}
		}
		resp = &dto.ReconcileResponse{
			CustomerID:   customerID,
			CachedBefore: customer.Points,
			Recomputed:   sum,
			Adjusted:     adjusted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// GetBalance devuelve el saldo cacheado y los movimientos recientes del ledger.
func (uc *UseCase) GetBalance(ctx context.Context, businessID, customerID string) (*dto.PointsBalanceResponse, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.ledgerRepo.ListByCustomer(customerID, 20)
	if err != nil {
		return nil, err
	}
	resp := &dto.PointsBalanceResponse{
		CustomerID: customerID,
		Points:     customer.Points,
		Entries:    make([]dto.PointsEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.PointsEntryResponse{
			ID:           e.ID,
			OrderID:      e.OrderID,
			PointsChange: e.PointsChange,
			Description:  e.Description,
			CreatedAt:    e.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}
