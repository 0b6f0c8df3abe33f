package dto

import "github.com/shopspring/decimal"

// OrderItemRequest una línea del carrito: variante vendible y cantidad.
type OrderItemRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateOrderRequest carrito más metadatos de pago.
// Subtotal y Total son opcionales: si vienen, deben coincidir con lo calculado
// desde los precios congelados (regla de redondeo a 2 decimales).
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	CustomerID    string             `json:"customer_id,omitempty"`
	PaymentMethod string             `json:"payment_method"`
	AmountPaid    decimal.Decimal    `json:"amount_paid"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PromotionID   string             `json:"promotion_id,omitempty"`
}

// OrderCreatedResponse respuesta de una venta confirmada.
type OrderCreatedResponse struct {
	OrderID      string          `json:"order_id"`
	Total        decimal.Decimal `json:"total"`
	PointsEarned int64           `json:"points_earned"`
}

// StockErrorResponse error estructurado de stock insuficiente.
type StockErrorResponse struct {
	Code         string          `json:"code"`
	Message      string          `json:"message"`
	ResourceKind string          `json:"resource_kind"`
	ResourceName string          `json:"resource_name"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
}

// OrderItemResponse línea de venta con snapshot de precio/costo.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	VariantID string          `json:"variant_id"`
	ProductID string          `json:"product_id"`
	Kind      string          `json:"kind"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse cabecera de venta con sus líneas.
type OrderResponse struct {
	ID            string              `json:"id"`
	BusinessID    string              `json:"business_id"`
	CustomerID    string              `json:"customer_id,omitempty"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"payment_method"`
	AmountPaid    decimal.Decimal     `json:"amount_paid"`
	PromotionID   string              `json:"promotion_id,omitempty"`
	PointsEarned  int64               `json:"points_earned"`
	CreatedAt     string              `json:"created_at"`
	Items         []OrderItemResponse `json:"items"`
}
