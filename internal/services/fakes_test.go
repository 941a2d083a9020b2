package services

import (
	"context"
	"sync"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"

	"support-system/internal/entities"
	"support-system/internal/repositories"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/types"
	"support-system/pkg/utils"
)

var baseTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeTicketRepo struct {
	mu         sync.Mutex
	tickets    map[string]entities.Ticket
	listErr    error
	lastScope  entities.TicketScope
	lastFilter types.TicketFilter
	updates    int
	deleted    []string
}

func newFakeTicketRepo(tickets ...entities.Ticket) *fakeTicketRepo {
	r := &fakeTicketRepo{tickets: make(map[string]entities.Ticket)}
	for _, t := range tickets {
		r.tickets[t.TicketID] = t
	}
	return r
}

func (r *fakeTicketRepo) ListTickets(_ context.Context, filter types.TicketFilter, scope entities.TicketScope) ([]entities.Ticket, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter, r.lastScope = filter, scope
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	result := make([]entities.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		result = append(result, t)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeTicketRepo) FindTicket(_ context.Context, _ pgx.Tx, ticketID string) (*entities.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[ticketID]
	if !ok {
		return nil, apperrors.ErrTicketNotFound
	}
	return &t, nil
}

func (r *fakeTicketRepo) CreateTicket(_ context.Context, _ pgx.Tx, t entities.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[t.TicketID] = t
	return nil
}

func (r *fakeTicketRepo) UpdateTicket(_ context.Context, _ pgx.Tx, t *entities.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[t.TicketID]; !ok {
		return apperrors.ErrTicketNotFound
	}
	t.UpdatedAt = baseTime.Add(time.Hour)
	r.tickets[t.TicketID] = *t
	r.updates++
	return nil
}

func (r *fakeTicketRepo) DeleteTicket(_ context.Context, _ pgx.Tx, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticketID]; !ok {
		return apperrors.ErrTicketNotFound
	}
	delete(r.tickets, ticketID)
	r.deleted = append(r.deleted, ticketID)
	return nil
}

type fakeHistoryRepo struct {
	created []entities.TicketHistory
	stored  []entities.TicketHistory
}

func (r *fakeHistoryRepo) CreateInTx(_ context.Context, _ pgx.Tx, h *entities.TicketHistory) error {
	h.CreatedAt = baseTime
	r.created = append(r.created, *h)
	return nil
}

func (r *fakeHistoryRepo) FindByTicketID(_ context.Context, ticketID string) ([]entities.TicketHistory, error) {
	var result []entities.TicketHistory
	for _, h := range r.stored {
		if h.TicketID == ticketID {
			result = append(result, h)
		}
	}
	return result, nil
}

type fakeUserRepo struct {
	users map[string]entities.User
}

func newFakeUserRepo(users ...entities.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]entities.User)}
	for _, u := range users {
		r.users[u.UserID] = u
	}
	return r
}

func (r *fakeUserRepo) FindByID(_ context.Context, userID string) (*entities.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, _ pgx.Tx, user entities.User) error {
	r.users[user.UserID] = user
	return nil
}

// fakeTxManager выполняет fn без транзакции; при ошибке ничего не откатывает.
type fakeTxManager struct{ calls int }

func (m *fakeTxManager) RunInTransaction(_ context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

type fakeSettingsRepo struct {
	values map[string][]byte
	gets   int
}

func (r *fakeSettingsRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.gets++
	v, ok := r.values[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return v, nil
}

func (r *fakeSettingsRepo) Upsert(_ context.Context, key string, value []byte) error {
	if r.values == nil {
		r.values = make(map[string][]byte)
	}
	r.values[key] = value
	return nil
}

type fakeCache struct {
	values map[string]string
	ttl    map[string]time.Duration
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.values[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = value.(string)
	c.ttl[key] = expiration
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func ctxAs(userID, role string) context.Context {
	return utils.WithUser(context.Background(), userID, role)
}

func sampleTicket(id, clientID, engineerID string) entities.Ticket {
	t := entities.Ticket{
		TicketID:    id,
		Title:       "Falla en bomba de riego",
		Description: "La bomba no arranca",
		Status:      "new",
		Priority:    "medium",
		Category:    "Mecánico",
		ProjectID:   "P-100",
		ClientID:    clientID,
		CreatedAt:   baseTime,
		UpdatedAt:   baseTime,
		ClientName:  null.StringFrom("Ana Pérez"),
		ClientEmail: null.StringFrom("ana@example.com"),
	}
	if engineerID != "" {
		t.AssignedTo = null.StringFrom(engineerID)
		t.EngineerName = null.StringFrom("Luis Gómez")
	}
	return t
}
