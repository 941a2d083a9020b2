package ticketlist

import (
	"context"
	"errors"
	"net/url"
	"sync"
)

// fakeAPI записывает вызовы и отдает заранее заданные ответы.
type fakeAPI struct {
	mu sync.Mutex

	listFn       func(ctx context.Context, q url.Values) (*TicketPage, error)
	updateErr    error
	deleteErr    error
	assignErr    error
	statusErr    error
	categories   []string
	categoryErr  error
	priorities   []PriorityOption
	priorityErr  error
	queries      []url.Values
	updates      []UpdateTicketRequest
	updatedIDs   []string
	deletedIDs   []string
	assigned     map[string]string
	statuses     map[string]string
	optionsCalls int
}

func (f *fakeAPI) ListTickets(ctx context.Context, q url.Values) (*TicketPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return &TicketPage{Pagination: Pagination{Page: 1, PerPage: DefaultPerPage}}, nil
	}
	return fn(ctx, q)
}

func (f *fakeAPI) UpdateTicket(_ context.Context, ticketID string, req UpdateTicketRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedIDs = append(f.updatedIDs, ticketID)
	f.updates = append(f.updates, req)
	return f.updateErr
}

func (f *fakeAPI) DeleteTicket(_ context.Context, ticketID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedIDs = append(f.deletedIDs, ticketID)
	return f.deleteErr
}

func (f *fakeAPI) AssignTicket(_ context.Context, ticketID, engineerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.assigned == nil {
		f.assigned = make(map[string]string)
	}
	f.assigned[ticketID] = engineerID
	return f.assignErr
}

func (f *fakeAPI) ChangeStatus(_ context.Context, ticketID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statuses == nil {
		f.statuses = make(map[string]string)
	}
	f.statuses[ticketID] = status
	return f.statusErr
}

func (f *fakeAPI) Categories(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.optionsCalls++
	return f.categories, f.categoryErr
}

func (f *fakeAPI) Priorities(context.Context) ([]PriorityOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.optionsCalls++
	return f.priorities, f.priorityErr
}

func (f *fakeAPI) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeAPI) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

// serverError имитирует ошибку API с сообщением сервера.
type serverError struct{ msg string }

func (e serverError) Error() string       { return "api: " + e.msg }
func (e serverError) UserMessage() string { return e.msg }

var errNetwork = errors.New("dial tcp: connection refused")

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

type countingScrollLock struct {
	mu    sync.Mutex
	depth int
}

func (l *countingScrollLock) Lock() {
	l.mu.Lock()
	l.depth++
	l.mu.Unlock()
}

func (l *countingScrollLock) Unlock() {
	l.mu.Lock()
	l.depth--
	l.mu.Unlock()
}

func (l *countingScrollLock) locked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.depth > 0
}

func sampleTickets() []Ticket {
	return []Ticket{
		{
			TicketID:         "GH-0001",
			Title:            "Inversor sin señal",
			Status:           "new",
			Priority:         "high",
			Category:         "Eléctrico",
			CreatedAt:        "2024-03-01T10:00:00",
			ProjectID:        "P-100",
			Client:           &Person{FullName: "Ana Pérez", Email: "ana@example.com"},
			AssignedEngineer: &Person{FullName: "Luis Gómez"},
		},
		{
			TicketID:  "GH-0002",
			Title:     "Panel roto",
			Status:    "on_hold",
			Priority:  "urgent",
			Category:  "Mecánico",
			CreatedAt: "2024-03-02T10:00:00",
			ProjectID: "P-200",
		},
	}
}

func pageOf(tickets []Ticket, page, pages, total int) *TicketPage {
	return &TicketPage{
		Tickets:    tickets,
		Pagination: Pagination{Page: page, PerPage: DefaultPerPage, Total: total, Pages: pages},
	}
}
