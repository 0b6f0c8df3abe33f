package orders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-engine/internal/application/audit"
	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// DeleteOrderUseCase elimina una venta confirmada (operación administrativa)
// revirtiendo todos sus efectos: restaura stock de productos y cantidades de
// materia prima desde el snapshot de consumo, y reversa los puntos acumulados
// con una fila de reverso en el ledger. Todo en una sola transacción.
type DeleteOrderUseCase struct {
	txRunner  TxRunner
	auditSink audit.Sink
}

// NewDeleteOrderUseCase construye el caso de uso.
func NewDeleteOrderUseCase(txRunner TxRunner, auditSink audit.Sink) *DeleteOrderUseCase {
	return &DeleteOrderUseCase{txRunner: txRunner, auditSink: auditSink}
}

// DeleteOrder elimina la venta y restaura recursos de forma simétrica.
func (uc *DeleteOrderUseCase) DeleteOrder(ctx context.Context, businessID, userID, orderID string) error {
	if businessID == "" || orderID == "" {
		return domain.ErrInvalidInput
	}
	now := time.Now()

	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		materialRepo repository.RawMaterialRepository,
		orderRepo repository.OrderRepository,
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.BusinessID != businessID {
			return domain.ErrForbidden
		}

		// Restauración desde el snapshot de consumo, no desde las recetas
		// actuales (pueden haber cambiado desde la venta). Misma agregación y
		// mismo orden ascendente de bloqueo que la creación.
		resources, err := orderRepo.ListResourcesByOrder(orderID)
		if err != nil {
			return err
		}
		for _, d := range aggregateResources(resources) {
			switch d.ResourceKind {
			case domain.ResourceKindProduct:
				if _, err := productRepo.GetForUpdate(d.ResourceID); err != nil {
					return err
				}
				if err := productRepo.AdjustStock(d.ResourceID, d.Required); err != nil {
					return err
				}
			case domain.ResourceKindRawMaterial:
				if _, err := materialRepo.GetForUpdate(d.ResourceID); err != nil {
					return err
				}
				if err := materialRepo.AdjustQuantity(d.ResourceID, d.Required); err != nil {
					return err
				}
			}
		}

		// Reverso de puntos: fila negativa en el ledger y decremento del
		// cache. Las filas originales no se tocan (ledger append-only).
		if order.CustomerID != "" && order.PointsEarned > 0 {
			customer, err := customerRepo.GetForUpdate(order.CustomerID)
			if err != nil {
				return err
			}
			if customer != nil {
				entry := &entity.PointsEntry{
					ID:           uuid.New().String(),
					CustomerID:   customer.ID,
					OrderID:      orderID,
					PointsChange: -order.PointsEarned,
					Description:  fmt.Sprintf("reverso por eliminación de venta %s", orderID),
					CreatedAt:    now,
				}
				if err := ledgerRepo.Append(entry); err != nil {
					return err
				}
				if err := customerRepo.AddPoints(customer.ID, -order.PointsEarned); err != nil {
					return err
				}
			}
		}

		if err := orderRepo.DeleteResources(orderID); err != nil {
			return err
		}
		if err := orderRepo.DeleteItems(orderID); err != nil {
			return err
		}
		return orderRepo.Delete(orderID)
	})
	if err != nil {
		uc.auditSink.Record(ctx, audit.Event{
			BusinessID: businessID,
			UserID:     userID,
			Action:     "order_delete_failed",
			Details:    map[string]any{"order_id": orderID, "error": err.Error()},
		})
		return err
	}

	uc.auditSink.Record(ctx, audit.Event{
		BusinessID: businessID,
		UserID:     userID,
		Action:     "order_deleted",
		Details:    map[string]any{"order_id": orderID},
	})
	return nil
}

// aggregateResources suma el snapshot de consumo por recurso y lo devuelve
// ordenado por id ascendente, igual que AggregateRequirements.
func aggregateResources(resources []*entity.OrderItemResource) []ResourceDemand {
	byID := make(map[string]*ResourceDemand)
	for _, res := range resources {
		if d, ok := byID[res.ResourceID]; ok {
			d.Required = d.Required.Add(res.Quantity)
			continue
		}
		byID[res.ResourceID] = &ResourceDemand{
			ResourceID:   res.ResourceID,
			ResourceKind: res.ResourceKind,
			Required:     res.Quantity,
		}
	}
	demands := make([]ResourceDemand, 0, len(byID))
	for _, d := range byID {
		demands = append(demands, *d)
	}
	sort.Slice(demands, func(i, j int) bool {
		return demands[i].ResourceID < demands[j].ResourceID
	})
	return demands
}
