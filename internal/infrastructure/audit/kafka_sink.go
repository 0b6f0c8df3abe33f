package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	appaudit "github.com/jhoicas/pos-engine/internal/application/audit"
)

var _ appaudit.Sink = (*KafkaSink)(nil)

// envelope es el sobre JSON publicado en el tópico de auditoría.
type envelope struct {
	EventID    string         `json:"event_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Producer   string         `json:"producer"`
	BusinessID string         `json:"business_id"`
	UserID     string         `json:"user_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
}

// KafkaSink publica eventos de auditoría en Kafka en modo asíncrono
// (fire-and-forget): Record retorna de inmediato y los errores de entrega
// solo se loguean. Un broker caído jamás revierte una venta.
type KafkaSink struct {
	w   *kafka.Writer
	log zerolog.Logger
}

// NewKafkaSink construye el sink. producer identifica el servicio en el sobre.
func NewKafkaSink(brokers []string, topic string, log zerolog.Logger) *KafkaSink {
	s := &KafkaSink{log: log}
	s.w = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				s.log.Warn().Err(err).Int("messages", len(messages)).Msg("entrega de auditoría falló")
			}
		},
	}
	return s
}

// Record serializa y publica el evento. Con Async activo WriteMessages no
// espera la confirmación del broker.
func (s *KafkaSink) Record(ctx context.Context, ev appaudit.Event) {
	env := envelope{
		EventID:    uuid.New().String(),
		OccurredAt: time.Now(),
		Producer:   "pos-engine",
		BusinessID: ev.BusinessID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Details:    ev.Details,
	}
	b, err := json.Marshal(env)
	if err != nil {
		s.log.Warn().Err(err).Str("action", ev.Action).Msg("serializar evento de auditoría")
		return
	}
	msg := kafka.Message{
		Key:   []byte(ev.BusinessID),
		Value: b,
		Time:  env.OccurredAt,
	}
	if err := s.w.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		s.log.Warn().Err(err).Str("action", ev.Action).Msg("publicar evento de auditoría")
	}
}

// Close cierra el writer drenando lo pendiente.
func (s *KafkaSink) Close() error {
	return s.w.Close()
}
