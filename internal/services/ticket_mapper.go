package services

import (
	"time"

	"github.com/aarondl/null/v8"

	"support-system/internal/dto"
	"support-system/internal/entities"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatNullTime(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return formatTime(t.Time)
}

func userRef(name, email null.String) *dto.UserRefDTO {
	if !name.Valid {
		return nil
	}
	return &dto.UserRefDTO{FullName: name.String, Email: email.String}
}

func ticketToDTO(t entities.Ticket) dto.TicketDTO {
	return dto.TicketDTO{
		TicketID:              t.TicketID,
		Title:                 t.Title,
		Description:           t.Description,
		Status:                t.Status,
		Priority:              t.Priority,
		Category:              t.Category,
		Subcategory:           t.Subcategory.String,
		ProjectID:             t.ProjectID,
		ClientID:              t.ClientID,
		AssignedTo:            t.AssignedTo.String,
		SLAResponseDeadline:   formatNullTime(t.SLAResponseDeadline),
		SLAResolutionDeadline: formatNullTime(t.SLAResolutionDeadline),
		CreatedAt:             formatTime(t.CreatedAt),
		UpdatedAt:             formatTime(t.UpdatedAt),
		Client:                userRef(t.ClientName, t.ClientEmail),
		AssignedEngineer:      userRef(t.EngineerName, t.EngineerEmail),
	}
}

func historyToDTO(h entities.TicketHistory) dto.TicketHistoryDTO {
	return dto.TicketHistoryDTO{
		ID:        h.HistoryID.String(),
		TicketID:  h.TicketID,
		UserID:    h.UserID,
		UserName:  h.UserName.String,
		Action:    h.Action,
		FieldName: h.FieldChanged.String,
		OldValue:  h.OldValue.String,
		NewValue:  h.NewValue.String,
		CreatedAt: formatTime(h.CreatedAt),
	}
}
