package events

import "support-system/internal/entities"

const (
	TicketUpdated = "ticket.updated"
	TicketDeleted = "ticket.deleted"
)

// TicketUpdatedEvent - тикет изменен через PATCH. History - записи,
// сохраненные в той же транзакции.
type TicketUpdatedEvent struct {
	Ticket  entities.Ticket
	ActorID string
	History []entities.TicketHistory
}

func (e TicketUpdatedEvent) Name() string { return TicketUpdated }

type TicketDeletedEvent struct {
	TicketID string
	Title    string
	ClientID string
	ActorID  string
}

func (e TicketDeletedEvent) Name() string { return TicketDeleted }
