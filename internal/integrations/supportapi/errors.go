package supportapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"support-system/internal/ticketlist"
)

// ErrUnauthorized - 401 от API. Совпадает с ticketlist.ErrSessionExpired,
// поэтому контроллер списка бросает такой запрос без сообщения об ошибке.
var ErrUnauthorized = ticketlist.ErrSessionExpired

// APIError - ответ сервера со статусом 4xx/5xx. Message заполнен, только если
// сервер прислал {"error": "..."}; иначе сырое тело лежит в Body.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return &APIError{StatusCode: status, Message: payload.Error}
	}
	return &APIError{StatusCode: status, Body: string(body)}
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// UserMessage - текст, который можно показать пользователю как есть.
func (e *APIError) UserMessage() string { return e.Message }

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}
