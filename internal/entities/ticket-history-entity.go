package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type TicketHistory struct {
	HistoryID    uuid.UUID   `db:"history_id"`
	TicketID     string      `db:"ticket_id"`
	UserID       string      `db:"user_id"`
	UserName     null.String `db:"user_name"`
	Action       string      `db:"action"`
	FieldChanged null.String `db:"field_changed"`
	OldValue     null.String `db:"old_value"`
	NewValue     null.String `db:"new_value"`
	CreatedAt    time.Time   `db:"created_at"`
}
