package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Ticket struct {
	TicketID              string      `db:"ticket_id"`
	Title                 string      `db:"title"`
	Description           string      `db:"description"`
	Status                string      `db:"status"`
	Priority              string      `db:"priority"`
	Category              string      `db:"category"`
	Subcategory           null.String `db:"subcategory"`
	ProjectID             string      `db:"project_id"`
	ClientID              string      `db:"client_id"`
	AssignedTo            null.String `db:"assigned_to"`
	SLAResponseDeadline   null.Time   `db:"sla_response_deadline"`
	SLAResolutionDeadline null.Time   `db:"sla_resolution_deadline"`
	CreatedAt             time.Time   `db:"created_at"`
	UpdatedAt             time.Time   `db:"updated_at"`

	// Поля из JOIN с users
	ClientName    null.String `db:"client_name"`
	ClientEmail   null.String `db:"client_email"`
	EngineerName  null.String `db:"engineer_name"`
	EngineerEmail null.String `db:"engineer_email"`
}

// TicketScope ограничивает выборку по роли пользователя. Пустые поля не
// ограничивают ничего.
type TicketScope struct {
	ClientID string
	// EngineerID - тикеты этого инженера и неназначенные.
	EngineerID string
}
