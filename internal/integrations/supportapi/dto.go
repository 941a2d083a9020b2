package supportapi

import "support-system/internal/ticketlist"

// TicketDetail - полная карточка тикета из GET /api/tickets/{id}.
type TicketDetail struct {
	ticketlist.Ticket
	Description           string `json:"description"`
	Subcategory           string `json:"subcategory,omitempty"`
	SLAResponseDeadline   string `json:"sla_response_deadline,omitempty"`
	SLAResolutionDeadline string `json:"sla_resolution_deadline,omitempty"`
}

type HistoryEntry struct {
	ID        string `json:"id"`
	TicketID  string `json:"ticket_id"`
	UserName  string `json:"user_name"`
	Action    string `json:"action"`
	FieldName string `json:"field_name,omitempty"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ticketResponse struct {
	Message string       `json:"message,omitempty"`
	Ticket  TicketDetail `json:"ticket"`
}

type assignRequest struct {
	EngineerID string `json:"engineer_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type deleteResponse struct {
	Message string `json:"message"`
	Ticket  struct {
		TicketID string `json:"ticket_id"`
		Title    string `json:"title"`
		ClientID string `json:"client_id"`
	} `json:"ticket"`
}

type historyResponse struct {
	History []HistoryEntry `json:"history"`
}
