package audit

import (
	"context"

	"github.com/rs/zerolog"

	appaudit "github.com/jhoicas/pos-engine/internal/application/audit"
)

var _ appaudit.Sink = (*LogSink)(nil)

// LogSink escribe los eventos de auditoría en el log estructurado. Se usa
// cuando no hay brokers de Kafka configurados.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink construye el sink.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

// Record registra el evento como línea de log.
func (s *LogSink) Record(_ context.Context, ev appaudit.Event) {
	s.log.Info().
		Str("business_id", ev.BusinessID).
		Str("user_id", ev.UserID).
		Str("action", ev.Action).
		Interface("details", ev.Details).
		Msg("audit")
}
