package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"support-system/pkg/constants"
)

var ticketPriorities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// registerRules регистрирует теги из DTO тикетов: ticket_priority,
// ticket_status и not_blank.
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("ticket_priority", isTicketPriority); err != nil {
		return err
	}
	if err := v.RegisterValidation("ticket_status", isTicketStatus); err != nil {
		return err
	}
	if err := v.RegisterValidation("not_blank", isNotBlank); err != nil {
		return err
	}
	return nil
}

func isTicketPriority(fl validator.FieldLevel) bool {
	return ticketPriorities[fl.Field().String()]
}

func isTicketStatus(fl validator.FieldLevel) bool {
	return constants.IsTicketStatus(fl.Field().String())
}

// isNotBlank - строка не пустая после обрезки пробелов
func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
