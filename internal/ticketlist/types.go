package ticketlist

import (
	"context"
	"net/url"
)

const DefaultPerPage = 20

type Person struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// Ticket - проекция тикета для строки списка. Источник истины - сервер.
type Ticket struct {
	TicketID         string  `json:"ticket_id"`
	Title            string  `json:"title"`
	Status           string  `json:"status"`
	Priority         string  `json:"priority"`
	Category         string  `json:"category"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	ProjectID        string  `json:"project_id"`
	Client           *Person `json:"client,omitempty"`
	AssignedEngineer *Person `json:"assigned_engineer,omitempty"`
}

type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

type TicketPage struct {
	Tickets    []Ticket   `json:"tickets"`
	Pagination Pagination `json:"pagination"`
}

// PriorityOption - элемент справочника приоритетов. Сервер отдает name,
// старые клиенты - value; Key возвращает то, что задано.
type PriorityOption struct {
	Value    string `json:"value,omitempty"`
	Name     string `json:"name,omitempty"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`
	SLAHours *int   `json:"sla_hours,omitempty"`
}

func (p PriorityOption) Key() string {
	if p.Value != "" {
		return p.Value
	}
	return p.Name
}

// UpdateTicketRequest - частичное обновление из модального окна редактирования.
// Описание сюда намеренно не входит.
type UpdateTicketRequest struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// TicketAPI - внешний REST API тикетов. Транспорт и токен - его забота.
type TicketAPI interface {
	ListTickets(ctx context.Context, query url.Values) (*TicketPage, error)
	UpdateTicket(ctx context.Context, ticketID string, req UpdateTicketRequest) error
	DeleteTicket(ctx context.Context, ticketID string) error
	AssignTicket(ctx context.Context, ticketID, engineerID string) error
	ChangeStatus(ctx context.Context, ticketID, status string) error
	Categories(ctx context.Context) ([]string, error)
	Priorities(ctx context.Context) ([]PriorityOption, error)
}

// Notifier - блокирующее уведомление пользователя (аналог alert).
type Notifier interface {
	Alert(message string)
}

// ScrollLock блокирует прокрутку фона, пока открыто модальное окно.
type ScrollLock interface {
	Lock()
	Unlock()
}

type noopNotifier struct{}

func (noopNotifier) Alert(string) {}

type noopScrollLock struct{}

func (noopScrollLock) Lock()   {}
func (noopScrollLock) Unlock() {}
