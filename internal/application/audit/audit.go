package audit

import "context"

// Event es el registro de auditoría de un intento de transacción.
type Event struct {
	BusinessID string
	UserID     string
	Action     string // order_created, order_create_failed, order_deleted, order_delete_failed, points_redeemed, points_redeem_failed
	Details    map[string]any
}

// Sink recibe eventos de auditoría. Fire-and-forget: Record no bloquea y su
// fallo nunca revierte la transacción de negocio que lo originó.
type Sink interface {
	Record(ctx context.Context, ev Event)
}

// NopSink descarta todos los eventos. Útil en tests.
type NopSink struct{}

func (NopSink) Record(context.Context, Event) {}
