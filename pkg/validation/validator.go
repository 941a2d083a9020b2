package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// TicketValidator проверяет тела запросов к /api/tickets и /api/settings.
// В ошибках поля называются по json-тегу, как их прислал клиент.
type TicketValidator struct {
	validate *validator.Validate
}

func (tv *TicketValidator) Validate(body interface{}) error {
	return tv.validate.Struct(body)
}

func New() *TicketValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	registerNullTypes(v)

	if err := registerRules(v); err != nil {
		panic("ошибка регистрации правил для тикетов: " + err.Error())
	}
	return &TicketValidator{validate: v}
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}
	return name
}
