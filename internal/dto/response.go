package dto

import "support-system/pkg/types"

type TicketListResponse struct {
	Tickets    []TicketDTO      `json:"tickets"`
	Pagination types.Pagination `json:"pagination"`
}

type TicketResponse struct {
	Message string     `json:"message,omitempty"`
	Ticket  *TicketDTO `json:"ticket"`
}

type DeletedTicketDTO struct {
	TicketID string `json:"ticket_id"`
	Title    string `json:"title"`
	ClientID string `json:"client_id"`
}

type DeleteTicketResponse struct {
	Message string           `json:"message"`
	Ticket  DeletedTicketDTO `json:"ticket"`
}

type TicketHistoryResponse struct {
	History []TicketHistoryDTO `json:"history"`
}
