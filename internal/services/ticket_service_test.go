package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"support-system/internal/dto"
	"support-system/internal/entities"
	"support-system/internal/events"
	"support-system/pkg/constants"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/eventbus"
	"support-system/pkg/types"
)

type capturedEvents struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (c *capturedEvents) listener(_ context.Context, e eventbus.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

type ticketServiceFixture struct {
	service  *ticketService
	repo     *fakeTicketRepo
	history  *fakeHistoryRepo
	users    *fakeUserRepo
	tx       *fakeTxManager
	bus      *eventbus.Bus
	captured *capturedEvents
}

func newTicketServiceFixture(tickets ...entities.Ticket) *ticketServiceFixture {
	f := &ticketServiceFixture{
		repo:     newFakeTicketRepo(tickets...),
		history:  &fakeHistoryRepo{},
		users:    newFakeUserRepo(
			entities.User{UserID: "eng-1", Email: "luis@example.com", FullName: "Luis Gómez", Role: constants.RoleEngineer},
			entities.User{UserID: "eng-2", Email: "marta@example.com", FullName: "Marta Ruiz", Role: constants.RoleEngineer},
			entities.User{UserID: "client-1", Email: "ana@example.com", FullName: "Ana Pérez", Role: constants.RoleClient},
		),
		tx:       &fakeTxManager{},
		bus:      eventbus.New(zap.NewNop()),
		captured: &capturedEvents{},
	}
	f.bus.Subscribe(events.TicketUpdated, f.captured.listener)
	f.bus.Subscribe(events.TicketDeleted, f.captured.listener)

	settings := NewSettingsService(&fakeSettingsRepo{}, nil, time.Minute, zap.NewNop())
	f.service = NewTicketService(f.repo, f.history, f.users, f.tx, settings, f.bus, zap.NewNop()).(*ticketService)
	return f
}

func (f *ticketServiceFixture) events() []eventbus.Event {
	f.bus.Wait()
	f.captured.mu.Lock()
	defer f.captured.mu.Unlock()
	return append([]eventbus.Event(nil), f.captured.events...)
}

func requireHttpError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var httpErr *apperrors.HttpError
	require.True(t, errors.As(err, &httpErr), "Ожидалась HttpError, получено: %v", err)
	assert.Equal(t, code, httpErr.Code)
	assert.Equal(t, message, httpErr.Message)
}

func TestListTickets_RoleScopes(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))
	filter := types.TicketFilter{ClientID: "client-9", Page: 1, PerPage: 20}

	resp, err := f.service.ListTickets(ctxAs("client-1", constants.RoleClient), filter)
	require.NoError(t, err)
	assert.Equal(t, entities.TicketScope{ClientID: "client-1"}, f.repo.lastScope)
	assert.Empty(t, f.repo.lastFilter.ClientID, "Клиент не может фильтровать по другому клиенту")
	require.Len(t, resp.Tickets, 1)
	assert.Equal(t, types.Pagination{Page: 1, PerPage: 20, Total: 1, Pages: 1}, resp.Pagination)
	assert.Equal(t, "Ana Pérez", resp.Tickets[0].Client.FullName)
	assert.Nil(t, resp.Tickets[0].AssignedEngineer)

	_, err = f.service.ListTickets(ctxAs("eng-1", constants.RoleEngineer), filter)
	require.NoError(t, err)
	assert.Equal(t, entities.TicketScope{EngineerID: "eng-1"}, f.repo.lastScope)
	assert.Equal(t, "client-9", f.repo.lastFilter.ClientID)

	filter.ViewAll = true
	_, err = f.service.ListTickets(ctxAs("eng-1", constants.RoleEngineer), filter)
	require.NoError(t, err)
	assert.Equal(t, entities.TicketScope{}, f.repo.lastScope)
}

func TestListTickets_RequiresUser(t *testing.T) {
	f := newTicketServiceFixture()
	_, err := f.service.ListTickets(context.Background(), types.TicketFilter{Page: 1, PerPage: 20})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestListTickets_EmptyPageKeepsTotals(t *testing.T) {
	f := newTicketServiceFixture()
	resp, err := f.service.ListTickets(ctxAs("admin-1", constants.RoleAdmin), types.TicketFilter{Page: 7, PerPage: 20})
	require.NoError(t, err)
	assert.NotNil(t, resp.Tickets, "Пустой список должен сериализоваться как []")
	assert.Equal(t, uint64(7), resp.Pagination.Page)
	assert.Equal(t, uint64(0), resp.Pagination.Pages)
}

func TestGetTicket_Permissions(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", "eng-1"))

	got, err := f.service.GetTicket(ctxAs("client-1", constants.RoleClient), "GH-0001")
	require.NoError(t, err)
	assert.Equal(t, "eng-1", got.AssignedTo)
	assert.Equal(t, "2024-03-10T09:00:00Z", got.CreatedAt)

	_, err = f.service.GetTicket(ctxAs("client-2", constants.RoleClient), "GH-0001")
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para ver este ticket")

	_, err = f.service.GetTicket(ctxAs("eng-2", constants.RoleEngineer), "GH-0001")
	assert.NoError(t, err, "Инженер может просматривать любой тикет")

	_, err = f.service.GetTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-9999")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestUpdateTicket_ClientEditsTitleOnly(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))

	resp, err := f.service.UpdateTicket(ctxAs("client-1", constants.RoleClient), "GH-0001", dto.UpdateTicketDTO{
		Title:    null.StringFrom("Bomba detenida"),
		Priority: null.StringFrom(constants.PriorityCritical),
	})
	require.NoError(t, err)
	assert.Equal(t, MsgTicketUpdated, resp.Message)
	assert.Equal(t, "Bomba detenida", resp.Ticket.Title)
	assert.Equal(t, constants.PriorityMedium, resp.Ticket.Priority, "Клиент не может менять приоритет")

	require.Len(t, f.history.created, 1)
	h := f.history.created[0]
	assert.Equal(t, constants.HistoryFieldUpdated, h.Action)
	assert.Equal(t, "title", h.FieldChanged.String)
	assert.Equal(t, "Falla en bomba de riego", h.OldValue.String)
	assert.Equal(t, "Bomba detenida", h.NewValue.String)
	assert.Equal(t, "client-1", h.UserID)

	evs := f.events()
	require.Len(t, evs, 1)
	updated, ok := evs[0].(events.TicketUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, "client-1", updated.ActorID)
	assert.Len(t, updated.History, 1)
}

func TestUpdateTicket_PriorityRecalculatesSLA(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", "eng-1"))

	_, err := f.service.UpdateTicket(ctxAs("eng-1", constants.RoleEngineer), "GH-0001", dto.UpdateTicketDTO{
		Priority: null.StringFrom(constants.PriorityHigh),
		Title:    null.StringFrom("Intento de cambio"),
	})
	require.NoError(t, err)

	stored := f.repo.tickets["GH-0001"]
	assert.Equal(t, constants.PriorityHigh, stored.Priority)
	assert.Equal(t, "Falla en bomba de riego", stored.Title, "Инженер не может менять заголовок")
	assert.Equal(t, baseTime.Add(4*time.Hour), stored.SLAResponseDeadline.Time)
	assert.Equal(t, baseTime.Add(24*time.Hour), stored.SLAResolutionDeadline.Time)

	require.Len(t, f.history.created, 1)
	assert.Equal(t, constants.HistoryPriorityChanged, f.history.created[0].Action)
	assert.Equal(t, "medium", f.history.created[0].OldValue.String)
}

func TestUpdateTicket_CategoryCarriesSubcategory(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))

	resp, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{
		Category:    null.StringFrom("Eléctrico"),
		Subcategory: null.StringFrom("Tablero"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Eléctrico", resp.Ticket.Category)
	assert.Equal(t, "Tablero", resp.Ticket.Subcategory)
	require.Len(t, f.history.created, 2)
	assert.Equal(t, constants.HistoryCategoryChanged, f.history.created[0].Action)
	assert.Equal(t, "subcategory", f.history.created[1].FieldChanged.String)
}

func TestUpdateTicket_KeepsSubcategoryWhenOmitted(t *testing.T) {
	ticket := sampleTicket("GH-0001", "client-1", "")
	ticket.Subcategory = null.StringFrom("inverter_not_working")
	f := newTicketServiceFixture(ticket)

	resp, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{
		Title:    null.StringFrom("Inversor sin salida"),
		Priority: null.StringFrom(constants.PriorityMedium),
		Category: null.StringFrom("Mecánico"),
	})
	require.NoError(t, err)
	assert.Equal(t, "inverter_not_working", resp.Ticket.Subcategory)

	stored := f.repo.tickets["GH-0001"]
	assert.Equal(t, null.StringFrom("inverter_not_working"), stored.Subcategory, "Подкатегория не должна стираться")
	assert.Equal(t, "Mecánico", stored.Category)

	require.Len(t, f.history.created, 1, "Записывается только смена заголовка")
	assert.Equal(t, "title", f.history.created[0].FieldChanged.String)
	for _, h := range f.history.created {
		assert.NotEqual(t, constants.HistoryCategoryChanged, h.Action)
	}
}

func TestUpdateTicket_SameCategoryNewSubcategory(t *testing.T) {
	ticket := sampleTicket("GH-0001", "client-1", "")
	ticket.Subcategory = null.StringFrom("inverter_not_working")
	f := newTicketServiceFixture(ticket)

	_, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{
		Category:    null.StringFrom(" Mecánico "),
		Subcategory: null.StringFrom(""),
	})
	require.NoError(t, err)
	assert.False(t, f.repo.tickets["GH-0001"].Subcategory.Valid, "Пустая подкатегория сохраняется как NULL")
	require.Len(t, f.history.created, 1)
	assert.Equal(t, constants.HistoryFieldUpdated, f.history.created[0].Action)
	assert.Equal(t, "subcategory", f.history.created[0].FieldChanged.String)
	assert.Equal(t, "inverter_not_working", f.history.created[0].OldValue.String)
}

func TestUpdateTicket_TrimsTitleAndDescription(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))

	_, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{
		Title:       null.StringFrom("  Falla en bomba de riego  "),
		Description: null.StringFrom("La bomba no arranca\n"),
	})
	require.NoError(t, err)
	assert.Zero(t, f.repo.updates, "Пробелы по краям не считаются изменением")
	assert.Empty(t, f.history.created)

	resp, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{
		Title: null.StringFrom("  Nuevo título  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo título", resp.Ticket.Title)
	assert.Equal(t, "Nuevo título", f.repo.tickets["GH-0001"].Title)
	require.Len(t, f.history.created, 1)
	assert.Equal(t, "Nuevo título", f.history.created[0].NewValue.String)
}

func TestUpdateTicket_Forbidden(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", "eng-1"))

	_, err := f.service.UpdateTicket(ctxAs("eng-2", constants.RoleEngineer), "GH-0001", dto.UpdateTicketDTO{
		Priority: null.StringFrom(constants.PriorityLow),
	})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para editar este ticket")
	assert.Zero(t, f.repo.updates)
	assert.Empty(t, f.events())

	_, err = f.service.UpdateTicket(ctxAs("client-2", constants.RoleClient), "GH-0001", dto.UpdateTicketDTO{
		Title: null.StringFrom("x"),
	})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para editar este ticket")
}

func TestUpdateTicket_NoChanges(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))

	_, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{})
	assert.ErrorIs(t, err, apperrors.ErrNothingToPatch)
	assert.Zero(t, f.tx.calls)

	resp, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.UpdateTicketDTO{
		Title: null.StringFrom("Falla en bomba de riego"),
	})
	require.NoError(t, err)
	assert.Equal(t, MsgTicketUpdated, resp.Message)
	assert.Zero(t, f.repo.updates, "Без изменений UPDATE не выполняется")
	assert.Empty(t, f.history.created)
	assert.Empty(t, f.events())
}

func TestUpdateTicket_BlankTitle(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))

	_, err := f.service.UpdateTicket(ctxAs("client-1", constants.RoleClient), "GH-0001", dto.UpdateTicketDTO{
		Title: null.StringFrom(""),
	})
	requireHttpError(t, err, http.StatusBadRequest, "El título es obligatorio")
	assert.Zero(t, f.tx.calls)
}

func TestUpdateTicket_NotFound(t *testing.T) {
	f := newTicketServiceFixture()
	_, err := f.service.UpdateTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0404", dto.UpdateTicketDTO{
		Title: null.StringFrom("x"),
	})
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestAssignTicket_NewTicketBecomesAssigned(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))

	resp, err := f.service.AssignTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.AssignTicketDTO{EngineerID: "eng-2"})
	require.NoError(t, err)
	assert.Equal(t, MsgTicketAssigned, resp.Message)
	assert.Equal(t, constants.StatusAssigned, resp.Ticket.Status)

	stored := f.repo.tickets["GH-0001"]
	assert.Equal(t, null.StringFrom("eng-2"), stored.AssignedTo)
	assert.Equal(t, constants.StatusAssigned, stored.Status)
	assert.Equal(t, 1, f.repo.updates)

	require.Len(t, f.history.created, 2)
	assert.Equal(t, constants.HistoryTicketAssigned, f.history.created[0].Action)
	assert.Equal(t, "assigned_to", f.history.created[0].FieldChanged.String)
	assert.Equal(t, "eng-2", f.history.created[0].NewValue.String)
	assert.Equal(t, constants.HistoryStatusChanged, f.history.created[1].Action)
	assert.Equal(t, constants.StatusNew, f.history.created[1].OldValue.String)

	evs := f.events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TicketUpdated, evs[0].Name())
}

func TestAssignTicket_Rules(t *testing.T) {
	inProgress := sampleTicket("GH-0002", "client-1", "eng-1")
	inProgress.Status = constants.StatusInProgress
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""), inProgress)

	_, err := f.service.AssignTicket(ctxAs("client-1", constants.RoleClient), "GH-0001", dto.AssignTicketDTO{EngineerID: "eng-1"})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para asignar tickets")

	_, err = f.service.AssignTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.AssignTicketDTO{EngineerID: " "})
	requireHttpError(t, err, http.StatusBadRequest, "ID de ingeniero requerido")

	_, err = f.service.AssignTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.AssignTicketDTO{EngineerID: "client-1"})
	requireHttpError(t, err, http.StatusNotFound, "Ingeniero no encontrado")

	_, err = f.service.AssignTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.AssignTicketDTO{EngineerID: "eng-404"})
	requireHttpError(t, err, http.StatusNotFound, "Ingeniero no encontrado")
	assert.Zero(t, f.tx.calls)

	// чужой тикет инженер переназначить не может
	_, err = f.service.AssignTicket(ctxAs("eng-2", constants.RoleEngineer), "GH-0002", dto.AssignTicketDTO{EngineerID: "eng-2"})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para asignar tickets")

	resp, err := f.service.AssignTicket(ctxAs("eng-1", constants.RoleEngineer), "GH-0002", dto.AssignTicketDTO{EngineerID: "eng-2"})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusInProgress, resp.Ticket.Status, "Статус меняется только у новых тикетов")
	require.Len(t, f.history.created, 1)
	assert.Equal(t, "eng-1", f.history.created[0].OldValue.String)

	_, err = f.service.AssignTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0002", dto.AssignTicketDTO{EngineerID: "eng-2"})
	require.NoError(t, err)
	assert.Len(t, f.history.created, 1, "Повторное назначение того же инженера ничего не пишет")
}

func TestChangeStatus(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", "eng-1"))

	resp, err := f.service.ChangeStatus(ctxAs("eng-1", constants.RoleEngineer), "GH-0001", dto.ChangeStatusDTO{
		Status: constants.StatusResolved,
		Notes:  null.StringFrom("Se cambió el fusible"),
	})
	require.NoError(t, err)
	assert.Equal(t, MsgStatusChanged, resp.Message)
	assert.Equal(t, constants.StatusResolved, f.repo.tickets["GH-0001"].Status)
	require.Len(t, f.history.created, 1)
	h := f.history.created[0]
	assert.Equal(t, constants.HistoryStatusChanged, h.Action)
	assert.Equal(t, "status", h.FieldChanged.String)
	assert.Equal(t, constants.StatusNew, h.OldValue.String)
	assert.Equal(t, constants.StatusResolved, h.NewValue.String)
	assert.Len(t, f.events(), 1)

	// тот же статус - без записи
	_, err = f.service.ChangeStatus(ctxAs("eng-1", constants.RoleEngineer), "GH-0001", dto.ChangeStatusDTO{Status: constants.StatusResolved})
	require.NoError(t, err)
	assert.Len(t, f.history.created, 1)
	assert.Equal(t, 1, f.repo.updates)
}

func TestChangeStatus_Rules(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", "eng-1"))

	_, err := f.service.ChangeStatus(ctxAs("admin-1", constants.RoleAdmin), "GH-0001", dto.ChangeStatusDTO{Status: "archived"})
	requireHttpError(t, err, http.StatusBadRequest, "Estado no válido")

	_, err = f.service.ChangeStatus(ctxAs("client-1", constants.RoleClient), "GH-0001", dto.ChangeStatusDTO{Status: constants.StatusResolved})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para cambiar a este estado")

	_, err = f.service.ChangeStatus(ctxAs("client-2", constants.RoleClient), "GH-0001", dto.ChangeStatusDTO{Status: constants.StatusClosed})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para editar este ticket")

	_, err = f.service.ChangeStatus(ctxAs("eng-2", constants.RoleEngineer), "GH-0001", dto.ChangeStatusDTO{Status: constants.StatusInProgress})
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para editar este ticket")
	assert.Zero(t, f.repo.updates)

	resp, err := f.service.ChangeStatus(ctxAs("client-1", constants.RoleClient), "GH-0001", dto.ChangeStatusDTO{Status: constants.StatusClosed})
	require.NoError(t, err)
	assert.Equal(t, constants.StatusClosed, resp.Ticket.Status)
}

func TestDeleteTicket(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", "eng-1"))

	_, err := f.service.DeleteTicket(ctxAs("eng-1", constants.RoleEngineer), "GH-0001")
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para eliminar tickets")
	assert.Empty(t, f.repo.deleted)

	resp, err := f.service.DeleteTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001")
	require.NoError(t, err)
	assert.Equal(t, MsgTicketDeleted, resp.Message)
	assert.Equal(t, dto.DeletedTicketDTO{TicketID: "GH-0001", Title: "Falla en bomba de riego", ClientID: "client-1"}, resp.Ticket)
	assert.Equal(t, []string{"GH-0001"}, f.repo.deleted)

	evs := f.events()
	require.Len(t, evs, 1)
	assert.Equal(t, events.TicketDeleted, evs[0].Name())

	_, err = f.service.DeleteTicket(ctxAs("admin-1", constants.RoleAdmin), "GH-0001")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestGetHistory(t *testing.T) {
	f := newTicketServiceFixture(sampleTicket("GH-0001", "client-1", ""))
	id := uuid.New()
	f.history.stored = []entities.TicketHistory{{
		HistoryID:    id,
		TicketID:     "GH-0001",
		UserID:       "admin-1",
		UserName:     null.StringFrom("Admin"),
		Action:       constants.HistoryPriorityChanged,
		FieldChanged: null.StringFrom("priority"),
		OldValue:     null.StringFrom("low"),
		NewValue:     null.StringFrom("high"),
		CreatedAt:    baseTime,
	}}

	resp, err := f.service.GetHistory(ctxAs("client-1", constants.RoleClient), "GH-0001")
	require.NoError(t, err)
	require.Len(t, resp.History, 1)
	assert.Equal(t, id.String(), resp.History[0].ID)
	assert.Equal(t, "priority", resp.History[0].FieldName)
	assert.Equal(t, "Admin", resp.History[0].UserName)

	_, err = f.service.GetHistory(ctxAs("client-2", constants.RoleClient), "GH-0001")
	requireHttpError(t, err, http.StatusForbidden, "No tiene permisos para ver este ticket")
}
