package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clase de línea de venta, resuelta una sola vez al crear la orden y
// persistida en order_items para que la eliminación nunca re-derive recetas.
const (
	ItemKindStockBacked  = "STOCK"
	ItemKindRecipeBacked = "RECIPE"
)

// Order es la cabecera de una venta confirmada. Inmutable una vez creada,
// salvo la eliminación administrativa que revierte sus efectos sobre recursos.
type Order struct {
	ID            string
	BusinessID    string
	CustomerID    string // vacío = venta sin cliente asociado
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	AmountPaid    decimal.Decimal
	PromotionID   string
	PointsEarned  int64
	CreatedBy     string
	CreatedAt     time.Time
}

// OrderItem es una línea de venta con precio y costo congelados al momento de la
// venta (snapshot, no referencia viva al catálogo).
type OrderItem struct {
	ID        string
	OrderID   string
	VariantID string
	ProductID string
	Kind      string // STOCK | RECIPE
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal
}

// OrderItemResource registra el consumo exacto de un recurso por una línea
// (producto o materia prima). Es el snapshot que permite restaurar cantidades
// de forma simétrica al eliminar la orden.
type OrderItemResource struct {
	ID           string
	OrderID      string
	OrderItemID  string
	ResourceKind string // domain.ResourceKindProduct | domain.ResourceKindRawMaterial
	ResourceID   string
	Quantity     decimal.Decimal
}
