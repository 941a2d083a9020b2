package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"support-system/internal/authz"
	"support-system/internal/dto"
	"support-system/internal/entities"
	"support-system/internal/events"
	"support-system/internal/repositories"
	"support-system/pkg/constants"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/eventbus"
	"support-system/pkg/types"
	"support-system/pkg/utils"
)

const (
	MsgTicketUpdated  = "Ticket actualizado exitosamente"
	MsgTicketDeleted  = "Ticket eliminado exitosamente"
	MsgTicketAssigned = "Ticket asignado exitosamente"
	MsgStatusChanged  = "Estado actualizado exitosamente"

	msgNoViewPermission   = "No tiene permisos para ver este ticket"
	msgNoEditPermission   = "No tiene permisos para editar este ticket"
	msgNoDeletePermission = "No tiene permisos para eliminar tickets"
	msgTitleRequired      = "El título es obligatorio"
	msgCategoryRequired   = "La categoría es obligatoria"
	msgNoAssignPermission = "No tiene permisos para asignar tickets"
	msgEngineerRequired   = "ID de ingeniero requerido"
	msgEngineerNotFound   = "Ingeniero no encontrado"
	msgNoStatusPermission = "No tiene permisos para cambiar a este estado"
	msgInvalidStatus      = "Estado no válido"
)

type TicketServiceInterface interface {
	ListTickets(ctx context.Context, filter types.TicketFilter) (*dto.TicketListResponse, error)
	GetTicket(ctx context.Context, ticketID string) (*dto.TicketDTO, error)
	UpdateTicket(ctx context.Context, ticketID string, d dto.UpdateTicketDTO) (*dto.TicketResponse, error)
	AssignTicket(ctx context.Context, ticketID string, d dto.AssignTicketDTO) (*dto.TicketResponse, error)
	ChangeStatus(ctx context.Context, ticketID string, d dto.ChangeStatusDTO) (*dto.TicketResponse, error)
	DeleteTicket(ctx context.Context, ticketID string) (*dto.DeleteTicketResponse, error)
	GetHistory(ctx context.Context, ticketID string) (*dto.TicketHistoryResponse, error)
}

type ticketService struct {
	ticketRepo  repositories.TicketRepositoryInterface
	historyRepo repositories.TicketHistoryRepositoryInterface
	userRepo    repositories.UserRepositoryInterface
	txManager   repositories.TxManagerInterface
	settings    SettingsServiceInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
	now         func() time.Time
}

func NewTicketService(
	ticketRepo repositories.TicketRepositoryInterface,
	historyRepo repositories.TicketHistoryRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	settings SettingsServiceInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) TicketServiceInterface {
	return &ticketService{
		ticketRepo:  ticketRepo,
		historyRepo: historyRepo,
		userRepo:    userRepo,
		txManager:   txManager,
		settings:    settings,
		bus:         bus,
		logger:      logger.Named("tickets"),
		now:         time.Now,
	}
}

// actorFromCtx собирает контекст авторизации из данных, положенных AuthMiddleware.
func actorFromCtx(ctx context.Context) (authz.Context, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return authz.Context{}, apperrors.ErrUnauthorized
	}
	role, err := utils.GetUserRoleFromCtx(ctx)
	if err != nil {
		return authz.Context{}, err
	}
	return authz.NewContext(userID, role), nil
}

func forbidden(message, ticketID string, actor authz.Context) error {
	return apperrors.NewHttpError(http.StatusForbidden, message, nil, map[string]interface{}{
		"ticket_id": ticketID,
		"user_id":   actor.UserID,
		"role":      actor.Role,
	})
}

func (s *ticketService) ListTickets(ctx context.Context, filter types.TicketFilter) (*dto.TicketListResponse, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.TicketsView, actor) {
		return nil, apperrors.ErrForbidden
	}
	// клиент не фильтрует по чужим клиентам
	if actor.HasPermission(authz.ScopeOwn) {
		filter.ClientID = ""
	}

	tickets, total, err := s.ticketRepo.ListTickets(ctx, filter, authz.ListScope(actor, filter.ViewAll))
	if err != nil {
		return nil, err
	}

	resp := &dto.TicketListResponse{
		Tickets:    make([]dto.TicketDTO, 0, len(tickets)),
		Pagination: types.NewPagination(filter.Page, filter.PerPage, total),
	}
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, ticketToDTO(t))
	}
	return resp, nil
}

func (s *ticketService) findVisible(ctx context.Context, ticketID string) (*entities.Ticket, authz.Context, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, actor, err
	}
	ticket, err := s.ticketRepo.FindTicket(ctx, nil, ticketID)
	if err != nil {
		return nil, actor, err
	}
	if !authz.CanDo(authz.TicketsView, actor.WithTarget(ticket)) {
		return nil, actor, forbidden(msgNoViewPermission, ticketID, actor)
	}
	return ticket, actor, nil
}

func (s *ticketService) GetTicket(ctx context.Context, ticketID string) (*dto.TicketDTO, error) {
	ticket, _, err := s.findVisible(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	result := ticketToDTO(*ticket)
	return &result, nil
}

func (s *ticketService) GetHistory(ctx context.Context, ticketID string) (*dto.TicketHistoryResponse, error) {
	if _, _, err := s.findVisible(ctx, ticketID); err != nil {
		return nil, err
	}
	items, err := s.historyRepo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	resp := &dto.TicketHistoryResponse{History: make([]dto.TicketHistoryDTO, 0, len(items))}
	for _, h := range items {
		resp.History = append(resp.History, historyToDTO(h))
	}
	return resp, nil
}

// historyRecorder копит записи истории одного изменения тикета.
type historyRecorder struct {
	ticketID string
	userID   string
	entries  []entities.TicketHistory
}

func (r *historyRecorder) record(action, field, oldValue, newValue string) {
	r.entries = append(r.entries, entities.TicketHistory{
		TicketID:     r.ticketID,
		UserID:       r.userID,
		Action:       action,
		FieldChanged: null.StringFrom(field),
		OldValue:     null.StringFrom(oldValue),
		NewValue:     null.StringFrom(newValue),
	})
}

// applyUpdate меняет в тикете разрешенные роли поля и возвращает записи
// истории. Поля без права на изменение пропускаются.
func (s *ticketService) applyUpdate(ctx context.Context, actor authz.Context, t *entities.Ticket, d dto.UpdateTicketDTO) []entities.TicketHistory {
	h := &historyRecorder{ticketID: t.TicketID, userID: actor.UserID}
	skipped := func(field string) {
		s.logger.Debug("Поле пропущено: нет права на изменение",
			zap.String("ticket_id", t.TicketID), zap.String("field", field), zap.String("role", actor.Role))
	}

	if d.Title.Valid {
		if actor.HasPermission(authz.FieldTitle) {
			title := strings.TrimSpace(d.Title.String)
			if title != t.Title {
				h.record(constants.HistoryFieldUpdated, "title", t.Title, title)
				t.Title = title
			}
		} else {
			skipped("title")
		}
	}
	if d.Description.Valid {
		if actor.HasPermission(authz.FieldDescription) {
			description := strings.TrimSpace(d.Description.String)
			if description != t.Description {
				h.record(constants.HistoryFieldUpdated, "description", t.Description, description)
				t.Description = description
			}
		} else {
			skipped("description")
		}
	}
	if d.Priority.Valid {
		if actor.HasPermission(authz.FieldPriority) {
			if d.Priority.String != t.Priority {
				h.record(constants.HistoryPriorityChanged, "priority", t.Priority, d.Priority.String)
				t.Priority = d.Priority.String
				response, resolution := CalculateDeadlines(t.CreatedAt, t.Priority,
					s.settings.PrioritySLAHours(ctx, t.Priority))
				t.SLAResponseDeadline = null.TimeFrom(response)
				t.SLAResolutionDeadline = null.TimeFrom(resolution)
			}
		} else {
			skipped("priority")
		}
	}
	if d.Category.Valid {
		if actor.HasPermission(authz.FieldCategory) {
			category := strings.TrimSpace(d.Category.String)
			if category != t.Category {
				h.record(constants.HistoryCategoryChanged, "category", t.Category, category)
				t.Category = category
			}
			// подкатегория меняется только вместе с категорией и только если прислана
			if d.Subcategory.Valid {
				value := strings.TrimSpace(d.Subcategory.String)
				sub := null.NewString(value, value != "")
				if sub != t.Subcategory {
					h.record(constants.HistoryFieldUpdated, "subcategory", t.Subcategory.String, sub.String)
					t.Subcategory = sub
				}
			}
		} else {
			skipped("category")
		}
	}
	return h.entries
}

// mutateTicket блокирует тикет, проверяет право permission на него и
// применяет mutate. Если mutate вернула записи истории, тикет и история
// сохраняются, а после коммита публикуется ticket.updated.
func (s *ticketService) mutateTicket(
	ctx context.Context,
	ticketID string,
	actor authz.Context,
	permission, forbiddenMsg string,
	mutate func(t *entities.Ticket) ([]entities.TicketHistory, error),
) (entities.Ticket, error) {
	var (
		updated entities.Ticket
		history []entities.TicketHistory
	)
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ticket, err := s.ticketRepo.FindTicket(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		if !authz.CanDo(permission, actor.WithTarget(ticket)) {
			return forbidden(forbiddenMsg, ticketID, actor)
		}

		history, err = mutate(ticket)
		if err != nil {
			return err
		}
		if len(history) > 0 {
			if err := s.ticketRepo.UpdateTicket(ctx, tx, ticket); err != nil {
				return err
			}
			for i := range history {
				if err := s.historyRepo.CreateInTx(ctx, tx, &history[i]); err != nil {
					return err
				}
			}
		}
		updated = *ticket
		return nil
	})
	if err != nil {
		return entities.Ticket{}, err
	}

	if len(history) > 0 {
		s.logger.Info("Тикет обновлен",
			zap.String("ticket_id", ticketID),
			zap.String("user_id", actor.UserID),
			zap.Int("changes", len(history)),
		)
		s.bus.Publish(ctx, events.TicketUpdatedEvent{Ticket: updated, ActorID: actor.UserID, History: history})
	}
	return updated, nil
}

func (s *ticketService) UpdateTicket(ctx context.Context, ticketID string, d dto.UpdateTicketDTO) (*dto.TicketResponse, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if len(d.Fields()) == 0 {
		return nil, apperrors.ErrNothingToPatch
	}
	// omitempty в валидаторе пропускает пустую строку
	if d.Title.Valid && strings.TrimSpace(d.Title.String) == "" {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, msgTitleRequired, nil, nil)
	}
	if d.Category.Valid && strings.TrimSpace(d.Category.String) == "" {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, msgCategoryRequired, nil, nil)
	}

	updated, err := s.mutateTicket(ctx, ticketID, actor, authz.TicketsUpdate, msgNoEditPermission,
		func(t *entities.Ticket) ([]entities.TicketHistory, error) {
			return s.applyUpdate(ctx, actor, t, d), nil
		})
	if err != nil {
		return nil, err
	}
	result := ticketToDTO(updated)
	return &dto.TicketResponse{Message: MsgTicketUpdated, Ticket: &result}, nil
}

// AssignTicket назначает тикет инженеру. Новый тикет при этом переходит в
// статус assigned.
func (s *ticketService) AssignTicket(ctx context.Context, ticketID string, d dto.AssignTicketDTO) (*dto.TicketResponse, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.TicketsAssign, actor) {
		return nil, forbidden(msgNoAssignPermission, ticketID, actor)
	}
	engineerID := strings.TrimSpace(d.EngineerID)
	if engineerID == "" {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, msgEngineerRequired, nil, nil)
	}
	engineer, err := s.userRepo.FindByID(ctx, engineerID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if engineer == nil || engineer.Role != constants.RoleEngineer {
		return nil, apperrors.NewHttpError(http.StatusNotFound, msgEngineerNotFound, nil, map[string]interface{}{"engineer_id": engineerID})
	}

	updated, err := s.mutateTicket(ctx, ticketID, actor, authz.TicketsAssign, msgNoAssignPermission,
		func(t *entities.Ticket) ([]entities.TicketHistory, error) {
			h := &historyRecorder{ticketID: t.TicketID, userID: actor.UserID}
			if t.AssignedTo.Valid && t.AssignedTo.String == engineer.UserID {
				return nil, nil
			}
			h.record(constants.HistoryTicketAssigned, "assigned_to", t.AssignedTo.String, engineer.UserID)
			t.AssignedTo = null.StringFrom(engineer.UserID)
			t.EngineerName = null.StringFrom(engineer.FullName)
			t.EngineerEmail = null.StringFrom(engineer.Email)
			if t.Status == constants.StatusNew {
				h.record(constants.HistoryStatusChanged, "status", t.Status, constants.StatusAssigned)
				t.Status = constants.StatusAssigned
			}
			return h.entries, nil
		})
	if err != nil {
		return nil, err
	}
	result := ticketToDTO(updated)
	return &dto.TicketResponse{Message: MsgTicketAssigned, Ticket: &result}, nil
}

// ChangeStatus меняет статус тикета. Клиент может только поставить тикет
// на ожидание или закрыть его.
func (s *ticketService) ChangeStatus(ctx context.Context, ticketID string, d dto.ChangeStatusDTO) (*dto.TicketResponse, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !constants.IsTicketStatus(d.Status) {
		return nil, apperrors.NewHttpError(http.StatusBadRequest, msgInvalidStatus, nil, map[string]interface{}{"status": d.Status})
	}
	if !authz.CanSetStatus(actor, d.Status) {
		return nil, forbidden(msgNoStatusPermission, ticketID, actor)
	}

	updated, err := s.mutateTicket(ctx, ticketID, actor, authz.TicketsStatus, msgNoEditPermission,
		func(t *entities.Ticket) ([]entities.TicketHistory, error) {
			if t.Status == d.Status {
				return nil, nil
			}
			h := &historyRecorder{ticketID: t.TicketID, userID: actor.UserID}
			h.record(constants.HistoryStatusChanged, "status", t.Status, d.Status)
			if d.Notes.Valid {
				s.logger.Info("Комментарий к смене статуса",
					zap.String("ticket_id", t.TicketID), zap.String("notes", d.Notes.String))
			}
			t.Status = d.Status
			return h.entries, nil
		})
	if err != nil {
		return nil, err
	}
	result := ticketToDTO(updated)
	return &dto.TicketResponse{Message: MsgStatusChanged, Ticket: &result}, nil
}

func (s *ticketService) DeleteTicket(ctx context.Context, ticketID string) (*dto.DeleteTicketResponse, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.TicketsDelete, actor) {
		return nil, forbidden(msgNoDeletePermission, ticketID, actor)
	}

	var deleted dto.DeletedTicketDTO
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		ticket, err := s.ticketRepo.FindTicket(ctx, tx, ticketID)
		if err != nil {
			return err
		}
		deleted = dto.DeletedTicketDTO{TicketID: ticket.TicketID, Title: ticket.Title, ClientID: ticket.ClientID}
		return s.ticketRepo.DeleteTicket(ctx, tx, ticketID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Тикет удален", zap.String("ticket_id", ticketID), zap.String("user_id", actor.UserID))
	s.bus.Publish(ctx, events.TicketDeletedEvent{
		TicketID: deleted.TicketID,
		Title:    deleted.Title,
		ClientID: deleted.ClientID,
		ActorID:  actor.UserID,
	})

	return &dto.DeleteTicketResponse{Message: MsgTicketDeleted, Ticket: deleted}, nil
}
