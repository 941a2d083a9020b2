package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"support-system/internal/events"
	"support-system/pkg/eventbus"
)

// AuditListener пишет изменения тикетов в отдельный журнал аудита.
type AuditListener struct {
	logger *zap.Logger
}

func NewAuditListener(logger *zap.Logger) *AuditListener {
	return &AuditListener{logger: logger.Named("audit")}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.TicketUpdated, l.Handle)
	bus.Subscribe(events.TicketDeleted, l.Handle)
}

func (l *AuditListener) Handle(_ context.Context, event eventbus.Event) error {
	switch e := event.(type) {
	case events.TicketUpdatedEvent:
		for _, h := range e.History {
			l.logger.Info("Изменение тикета",
				zap.String("ticket_id", e.Ticket.TicketID),
				zap.String("actor_id", e.ActorID),
				zap.String("action", h.Action),
				zap.String("field", h.FieldChanged.String),
				zap.String("old", h.OldValue.String),
				zap.String("new", h.NewValue.String),
			)
		}
	case events.TicketDeletedEvent:
		l.logger.Info("Тикет удален",
			zap.String("ticket_id", e.TicketID),
			zap.String("title", e.Title),
			zap.String("client_id", e.ClientID),
			zap.String("actor_id", e.ActorID),
		)
	default:
		return fmt.Errorf("неожиданное событие %s", event.Name())
	}
	return nil
}
