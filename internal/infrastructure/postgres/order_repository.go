package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-engine/internal/domain"
	"github.com/jhoicas/pos-engine/internal/domain/entity"
	"github.com/jhoicas/pos-engine/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la venta.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, business_id, customer_id, subtotal, tax, discount, total, payment_method, amount_paid, promotion_id, points_earned, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.BusinessID, nullIfEmpty(order.CustomerID),
		order.Subtotal, order.Tax, order.Discount, order.Total,
		order.PaymentMethod, order.AmountPaid, nullIfEmpty(order.PromotionID),
		order.PointsEarned, order.CreatedBy, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta con su snapshot de precio/costo.
func (r *OrderRepo) CreateItem(item *entity.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, variant_id, product_id, kind, quantity, unit_price, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.VariantID, item.ProductID, item.Kind,
		item.Quantity, item.UnitPrice, item.UnitCost, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// CreateItemResource persiste el consumo de un recurso por una línea.
func (r *OrderRepo) CreateItemResource(res *entity.OrderItemResource) error {
	query := `
		INSERT INTO order_item_resources (id, order_id, order_item_id, resource_kind, resource_id, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		res.ID, res.OrderID, res.OrderItemID, res.ResourceKind, res.ResourceID, res.Quantity,
	)
	if err != nil {
		return fmt.Errorf("insert order item resource: %w", err)
	}
	return nil
}

const orderColumns = `id, business_id, COALESCE(customer_id, ''), subtotal, tax, discount, total, payment_method, amount_paid, COALESCE(promotion_id, ''), points_earned, created_by, created_at`

// GetByID obtiene la cabecera por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOrder(r.q.QueryRow(context.Background(), query, id), "get order")
}

// GetForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.scanOrder(r.q.QueryRow(context.Background(), query, id), "get order for update")
}

func (r *OrderRepo) scanOrder(row pgx.Row, op string) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.BusinessID, &o.CustomerID, &o.Subtotal, &o.Tax, &o.Discount, &o.Total,
		&o.PaymentMethod, &o.AmountPaid, &o.PromotionID, &o.PointsEarned, &o.CreatedBy, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// ListItems lista las líneas de una venta.
func (r *OrderRepo) ListItems(orderID string) ([]*entity.OrderItem, error) {
	query := `
		SELECT id, order_id, variant_id, product_id, kind, quantity, unit_price, unit_cost, subtotal
		FROM order_items WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []*entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.ProductID, &it.Kind,
			&it.Quantity, &it.UnitPrice, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return items, nil
}

// ListResourcesByOrder lista el snapshot de consumo de recursos de la venta.
func (r *OrderRepo) ListResourcesByOrder(orderID string) ([]*entity.OrderItemResource, error) {
	query := `
		SELECT id, order_id, order_item_id, resource_kind, resource_id, quantity
		FROM order_item_resources WHERE order_id = $1
		ORDER BY resource_id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order item resources: %w", err)
	}
	defer rows.Close()

	var resources []*entity.OrderItemResource
	for rows.Next() {
		var res entity.OrderItemResource
		if err := rows.Scan(&res.ID, &res.OrderID, &res.OrderItemID,
			&res.ResourceKind, &res.ResourceID, &res.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item resource: %w", err)
		}
		resources = append(resources, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order item resources: %w", err)
	}
	return resources, nil
}

// DeleteResources elimina el snapshot de consumo de la venta.
func (r *OrderRepo) DeleteResources(orderID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_item_resources WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order item resources: %w", err)
	}
	return nil
}

// DeleteItems elimina las líneas de la venta.
func (r *OrderRepo) DeleteItems(orderID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return nil
}

// Delete elimina la cabecera.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}
