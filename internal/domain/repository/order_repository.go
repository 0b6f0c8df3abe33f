package repository

import "github.com/jhoicas/pos-engine/internal/domain/entity"

// OrderRepository define el puerto de persistencia para órdenes, sus líneas y
// el snapshot de recursos consumidos. Las mutaciones solo ocurren dentro de la
// transacción de creación o eliminación.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateItem(item *entity.OrderItem) error
	CreateItemResource(res *entity.OrderItemResource) error
	GetByID(id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera para la eliminación administrativa.
	GetForUpdate(id string) (*entity.Order, error)
	ListItems(orderID string) ([]*entity.OrderItem, error)
	ListResourcesByOrder(orderID string) ([]*entity.OrderItemResource, error)
	DeleteResources(orderID string) error
	DeleteItems(orderID string) error
	Delete(id string) error
}
