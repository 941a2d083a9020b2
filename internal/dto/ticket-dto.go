package dto

import "github.com/aarondl/null/v8"

type TicketDTO struct {
	TicketID              string      `json:"ticket_id"`
	Title                 string      `json:"title"`
	Description           string      `json:"description"`
	Status                string      `json:"status"`
	Priority              string      `json:"priority"`
	Category              string      `json:"category"`
	Subcategory           string      `json:"subcategory,omitempty"`
	ProjectID             string      `json:"project_id"`
	ClientID              string      `json:"client_id"`
	AssignedTo            string      `json:"assigned_to,omitempty"`
	SLAResponseDeadline   string      `json:"sla_response_deadline,omitempty"`
	SLAResolutionDeadline string      `json:"sla_resolution_deadline,omitempty"`
	CreatedAt             string      `json:"created_at"`
	UpdatedAt             string      `json:"updated_at"`
	Client                *UserRefDTO `json:"client,omitempty"`
	AssignedEngineer      *UserRefDTO `json:"assigned_engineer,omitempty"`
}

// UpdateTicketDTO - тело PATCH /api/tickets/{id}. Отсутствующее поле не
// меняется; какие поля роль может менять, решает сервис.
type UpdateTicketDTO struct {
	Title       null.String `json:"title" validate:"omitempty,not_blank,max=200"`
	Description null.String `json:"description" validate:"omitempty,max=5000"`
	Priority    null.String `json:"priority" validate:"omitempty,ticket_priority"`
	Category    null.String `json:"category" validate:"omitempty,not_blank,max=100"`
	Subcategory null.String `json:"subcategory" validate:"omitempty,max=100"`
}

// Fields - имена присланных полей, для аудита.
func (d UpdateTicketDTO) Fields() []string {
	fields := make([]string, 0, 5)
	for _, f := range []struct {
		name  string
		value null.String
	}{
		{"title", d.Title},
		{"description", d.Description},
		{"priority", d.Priority},
		{"category", d.Category},
		{"subcategory", d.Subcategory},
	} {
		if f.value.Valid {
			fields = append(fields, f.name)
		}
	}
	return fields
}

// AssignTicketDTO - тело POST /api/tickets/{id}/assign.
type AssignTicketDTO struct {
	EngineerID string `json:"engineer_id"`
}

// ChangeStatusDTO - тело POST /api/tickets/{id}/status. Notes попадают
// только в лог.
type ChangeStatusDTO struct {
	Status string      `json:"status" validate:"required,ticket_status"`
	Notes  null.String `json:"notes" validate:"omitempty,max=2000"`
}
