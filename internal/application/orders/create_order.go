package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-engine/internal/application/audit"
	"github.com/jhoicas/pos-engine/internal/application/dto"
	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

// Valor por defecto: unidades monetarias necesarias para acumular 1 punto,
// si el negocio no tiene configurado el suyo.
var defaultPointsUnitValue = decimal.NewFromInt(10000)

// CreateOrderUseCase convierte un carrito en una venta durable: cabecera,
// líneas con snapshot de precio/costo, descuento de recursos y acumulación de
// puntos, todo en una sola transacción.
type CreateOrderUseCase struct {
	txRunner     TxRunner
	resolver     *Resolver
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	loyaltyUC    LoyaltyUseCase
	auditSink    audit.Sink
	// Fallback cuando el negocio no tiene points_unit_value configurado.
	pointsUnitValue decimal.Decimal
}

// NewCreateOrderUseCase construye el caso de uso. pointsUnitValue <= 0 usa el
// valor por defecto (10000).
func NewCreateOrderUseCase(
	txRunner TxRunner,
	resolver *Resolver,
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	loyaltyUC LoyaltyUseCase,
	auditSink audit.Sink,
	pointsUnitValue int64,
) *CreateOrderUseCase {
	unitValue := defaultPointsUnitValue
	if pointsUnitValue > 0 {
		unitValue = decimal.NewFromInt(pointsUnitValue)
	}
	return &CreateOrderUseCase{
		txRunner:        txRunner,
		resolver:        resolver,
		businessRepo:    businessRepo,
		customerRepo:    customerRepo,
		orderRepo:       orderRepo,
		loyaltyUC:       loyaltyUC,
		auditSink:       auditSink,
		pointsUnitValue: unitValue,
	}
}

// CreateOrder valida el carrito, resuelve cada línea (lectura pura, fuera de
// la tx) y luego, dentro de una transacción: valida disponibilidad con
// bloqueo, inserta cabecera y líneas, aplica deltas de recursos bajo los
// bloqueos ya retenidos y acumula puntos si hay cliente. Cualquier fallo
// revierte todo; ningún lector observa estado parcial.
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, businessID, userID string, in dto.CreateOrderRequest) (*dto.OrderCreatedResponse, error) {
	// Carrito malformado: se rechaza sin abrir transacción.
	if businessID == "" || userID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.VariantID == "" || !item.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Tax.IsNegative() || in.Discount.IsNegative() || in.AmountPaid.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	business, err := uc.businessRepo.GetByID(businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}

	// Resolución en el orden del request: el primer bloqueo detectado es el
	// que ve el caller, por eso el orden de validación es determinista.
	lines := make([]*ResolvedLine, 0, len(in.Items))
	for _, item := range in.Items {
		line, err := uc.resolver.Resolve(businessID, item.VariantID, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	var customer *entity.Customer
	if in.CustomerID != "" {
		customer, err = uc.customerRepo.GetByID(in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, domain.ErrNotFound
		}
		if customer.BusinessID != businessID {
			return nil, domain.ErrForbidden
		}
	}

	// Totales desde los precios congelados, redondeo a 2 decimales.
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Quantity.Mul(line.UnitPrice))
	}
	subtotal = subtotal.Round(2)
	total := subtotal.Add(in.Tax).Sub(in.Discount).Round(2)
	if total.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	// Si el caller mandó totales, deben cuadrar con lo calculado.
	if !in.Subtotal.IsZero() && !in.Subtotal.Round(2).Equal(subtotal) {
		return nil, domain.ErrInvalidInput
	}
	if !in.Total.IsZero() && !in.Total.Round(2).Equal(total) {
		return nil, domain.ErrInvalidInput
	}

	var points int64
	if customer != nil {
		points = uc.pointsFor(total, business.PointsUnitValue)
	}

	now := time.Now()
	orderID := uuid.New().String()

	err = uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		materialRepo repository.RawMaterialRepository,
		orderRepo repository.OrderRepository,
		customerRepo repository.CustomerRepository,
		ledgerRepo repository.PointsLedgerRepository,
	) error {
		// 1) Suficiencia agregada bajo SELECT FOR UPDATE, orden ascendente.
		if err := ValidateAvailability(productRepo, materialRepo, lines); err != nil {
			return err
		}

		// 2) Cabecera.
		order := &entity.Order{
			ID:            orderID,
			BusinessID:    businessID,
			Subtotal:      subtotal,
			Tax:           in.Tax,
			Discount:      in.Discount,
			Total:         total,
			PaymentMethod: in.PaymentMethod,
			AmountPaid:    in.AmountPaid,
			PromotionID:   in.PromotionID,
			PointsEarned:  points,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if customer != nil {
			order.CustomerID = customer.ID
		}
		if err := orderRepo.Create(order); err != nil {
			return err
		}

		// 3) Líneas con snapshot de precio/costo y clase resuelta, más el
		// snapshot de recursos consumidos (para la restauración al eliminar).
		for _, line := range lines {
			item := &entity.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				VariantID: line.VariantID,
				ProductID: line.ProductID,
				Kind:      line.Kind,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				UnitCost:  line.UnitCost,
				Subtotal:  line.Quantity.Mul(line.UnitPrice).Round(2),
			}
			if err := orderRepo.CreateItem(item); err != nil {
				return err
			}
			for _, req := range line.Requirements {
				res := &entity.OrderItemResource{
					ID:           uuid.New().String(),
					OrderID:      orderID,
					OrderItemID:  item.ID,
					ResourceKind: req.ResourceKind,
					ResourceID:   req.ResourceID,
					Quantity:     req.Quantity,
				}
				if err := orderRepo.CreateItemResource(res); err != nil {
					return err
				}
			}
		}

		// 4) Deltas de recursos: un único UPDATE condicional por recurso,
		// bajo los bloqueos retenidos por la validación, mismo orden.
		for _, d := range AggregateRequirements(lines) {
			switch d.ResourceKind {
			case domain.ResourceKindProduct:
				if err := productRepo.AdjustStock(d.ResourceID, d.Required.Neg()); err != nil {
					return err
				}
			case domain.ResourceKindRawMaterial:
				if err := materialRepo.AdjustQuantity(d.ResourceID, d.Required.Neg()); err != nil {
					return err
				}
			}
		}

		// 5) Acumulación de puntos dentro de la misma transacción.
		if customer != nil && points > 0 {
			desc := fmt.Sprintf("acumulación por venta %s", orderID)
			if err := uc.loyaltyUC.AccrueInTx(customerRepo, ledgerRepo, customer.ID, orderID, points, desc, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.auditSink.Record(ctx, audit.Event{
			BusinessID: businessID,
			UserID:     userID,
			Action:     "order_create_failed",
			Details:    map[string]any{"order_id": orderID, "error": err.Error()},
		})
		return nil, err
	}

	uc.auditSink.Record(ctx, audit.Event{
		BusinessID: businessID,
		UserID:     userID,
		Action:     "order_created",
		Details:    map[string]any{"order_id": orderID, "total": total.String(), "points_earned": points},
	})
	return &dto.OrderCreatedResponse{
		OrderID:      orderID,
		Total:        total,
		PointsEarned: points,
	}, nil
}

// pointsFor aplica la fórmula floor(total / pointsUnitValue). Usa el valor del
// negocio si es positivo, si no el fallback configurado.
func (uc *CreateOrderUseCase) pointsFor(total, unitValue decimal.Decimal) int64 {
	if !unitValue.IsPositive() {
		unitValue = uc.pointsUnitValue
	}
	return total.Div(unitValue).Floor().IntPart()
}

// GetOrder obtiene una venta con sus líneas, verificando el tenant.
func (uc *CreateOrderUseCase) GetOrder(ctx context.Context, businessID, id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.orderRepo.ListItems(id)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderResponse{
		ID:            order.ID,
		BusinessID:    order.BusinessID,
		CustomerID:    order.CustomerID,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		Discount:      order.Discount,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		AmountPaid:    order.AmountPaid,
		PromotionID:   order.PromotionID,
		PointsEarned:  order.PointsEarned,
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
		Items:         make([]dto.OrderItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:        it.ID,
			VariantID: it.VariantID,
			ProductID: it.ProductID,
			Kind:      it.Kind,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return resp, nil
}
