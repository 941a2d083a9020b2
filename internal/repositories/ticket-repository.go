package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"support-system/internal/entities"
	db "support-system/internal/infrastructure/bd"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/types"
)

const (
	ticketTable  = "tickets"
	ticketFields = `t.ticket_id, t.title, t.description, t.status, t.priority, t.category, t.subcategory,
		t.project_id, t.client_id, t.assigned_to, t.sla_response_deadline, t.sla_resolution_deadline,
		t.created_at, t.updated_at,
		c.full_name AS client_name, c.email AS client_email,
		e.full_name AS engineer_name, e.email AS engineer_email`
)

// allowedTicketSortFields - БЕЛЫЙ СПИСОК для сортировки
var allowedTicketSortFields = map[string]string{
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
	"priority":   "CASE t.priority WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 WHEN 'low' THEN 1 ELSE 0 END",
	"status":     "CASE t.status WHEN 'new' THEN 1 WHEN 'assigned' THEN 2 WHEN 'in_progress' THEN 3 WHEN 'waiting' THEN 4 WHEN 'resolved' THEN 5 WHEN 'closed' THEN 6 ELSE 0 END",
}

// ticketSearchColumns - где ищет параметр search
var ticketSearchColumns = []string{
	"t.ticket_id", "t.title", "t.description", "t.project_id", "c.full_name", "c.email",
}

type TicketRepositoryInterface interface {
	ListTickets(ctx context.Context, filter types.TicketFilter, scope entities.TicketScope) ([]entities.Ticket, uint64, error)
	// FindTicket с непустым tx блокирует строку до конца транзакции.
	FindTicket(ctx context.Context, tx pgx.Tx, ticketID string) (*entities.Ticket, error)
	CreateTicket(ctx context.Context, tx pgx.Tx, t entities.Ticket) error
	UpdateTicket(ctx context.Context, tx pgx.Tx, t *entities.Ticket) error
	DeleteTicket(ctx context.Context, tx pgx.Tx, ticketID string) error
}

type ticketRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTicketRepository(storage *pgxpool.Pool, logger *zap.Logger) TicketRepositoryInterface {
	return &ticketRepository{storage: storage, logger: logger}
}

func (r *ticketRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func ticketFrom(builder sq.SelectBuilder) sq.SelectBuilder {
	return builder.From(ticketTable + " t").
		LeftJoin("users c ON c.user_id = t.client_id").
		LeftJoin("users e ON e.user_id = t.assigned_to")
}

// applyTicketFilters - одинаковые условия для COUNT и SELECT
func applyTicketFilters(builder sq.SelectBuilder, filter types.TicketFilter, scope entities.TicketScope) sq.SelectBuilder {
	if scope.ClientID != "" {
		builder = builder.Where(sq.Eq{"t.client_id": scope.ClientID})
	}
	if scope.EngineerID != "" {
		builder = builder.Where(sq.Or{
			sq.Eq{"t.assigned_to": scope.EngineerID},
			sq.Eq{"t.assigned_to": nil},
		})
	}

	equals := []struct{ col, val string }{
		{"t.status", filter.Status},
		{"t.priority", filter.Priority},
		{"t.category", filter.Category},
		{"t.assigned_to", filter.AssignedTo},
		{"t.client_id", filter.ClientID},
		{"t.project_id", filter.ProjectID},
	}
	for _, e := range equals {
		if e.val != "" {
			builder = builder.Where(sq.Eq{e.col: e.val})
		}
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		search := make(sq.Or, 0, len(ticketSearchColumns))
		for _, col := range ticketSearchColumns {
			search = append(search, sq.ILike{col: pattern})
		}
		builder = builder.Where(search)
	}

	if filter.DateFrom != nil {
		builder = builder.Where(sq.GtOrEq{"t.created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(sq.LtOrEq{"t.created_at": *filter.DateTo})
	}
	return builder
}

// buildTicketListQueries собирает COUNT и страницу SELECT.
func buildTicketListQueries(filter types.TicketFilter, scope entities.TicketScope) (countBuilder, selectBuilder sq.SelectBuilder) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder = applyTicketFilters(ticketFrom(psql.Select("COUNT(t.ticket_id)")), filter, scope)

	selectBuilder = applyTicketFilters(ticketFrom(psql.Select(ticketFields)), filter, scope)
	selectBuilder = db.ApplyOrderAndPage(selectBuilder, filter.OrderBy, filter.OrderDir, "created_at", "t.ticket_id",
		filter.PerPage, filter.Offset(), allowedTicketSortFields)
	return countBuilder, selectBuilder
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(
		&t.TicketID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Category, &t.Subcategory,
		&t.ProjectID, &t.ClientID, &t.AssignedTo, &t.SLAResponseDeadline, &t.SLAResolutionDeadline,
		&t.CreatedAt, &t.UpdatedAt,
		&t.ClientName, &t.ClientEmail, &t.EngineerName, &t.EngineerEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("ошибка сканирования tickets: %w", err)
	}
	return &t, nil
}

// ListTickets возвращает страницу тикетов и общее число подходящих под фильтр.
// PerPage == 0 - без пагинации.
func (r *ticketRepository) ListTickets(ctx context.Context, filter types.TicketFilter, scope entities.TicketScope) ([]entities.Ticket, uint64, error) {
	countBuilder, selectBuilder := buildTicketListQueries(filter, scope)

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL count: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения count: %w", err)
	}
	if total == 0 {
		return []entities.Ticket{}, 0, nil
	}
	if filter.OffsetOverflows() {
		return []entities.Ticket{}, total, nil
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка сборки SQL select: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения select: %w", err)
	}
	defer rows.Close()

	tickets := make([]entities.Ticket, 0, filter.PerPage)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, err
		}
		tickets = append(tickets, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка чтения tickets: %w", err)
	}
	return tickets, total, nil
}

func (r *ticketRepository) FindTicket(ctx context.Context, tx pgx.Tx, ticketID string) (*entities.Ticket, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := ticketFrom(psql.Select(ticketFields)).Where(sq.Eq{"t.ticket_id": ticketID})
	if tx != nil {
		builder = builder.Suffix("FOR UPDATE OF t")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для FindTicket: %w", err)
	}
	return scanTicket(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *ticketRepository) CreateTicket(ctx context.Context, tx pgx.Tx, t entities.Ticket) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(ticketTable).
		Columns("ticket_id", "title", "description", "status", "priority", "category", "subcategory",
			"project_id", "client_id", "assigned_to", "sla_response_deadline", "sla_resolution_deadline",
			"created_at", "updated_at").
		Values(t.TicketID, t.Title, t.Description, t.Status, t.Priority, t.Category, t.Subcategory,
			t.ProjectID, t.ClientID, t.AssignedTo, t.SLAResponseDeadline, t.SLAResolutionDeadline,
			t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL insert: %w", err)
	}
	if _, err := r.getQuerier(tx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка создания тикета: %w", err)
	}
	return nil
}

// UpdateTicket сохраняет изменяемые поля, назначение и дедлайны SLA,
// обновляя t.UpdatedAt.
func (r *ticketRepository) UpdateTicket(ctx context.Context, tx pgx.Tx, t *entities.Ticket) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Update(ticketTable).
		Set("title", t.Title).
		Set("description", t.Description).
		Set("priority", t.Priority).
		Set("category", t.Category).
		Set("subcategory", t.Subcategory).
		Set("status", t.Status).
		Set("assigned_to", t.AssignedTo).
		Set("sla_response_deadline", t.SLAResponseDeadline).
		Set("sla_resolution_deadline", t.SLAResolutionDeadline).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"ticket_id": t.TicketID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL update: %w", err)
	}
	if err := r.getQuerier(tx).QueryRow(ctx, query, args...).Scan(&t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrTicketNotFound
		}
		return fmt.Errorf("ошибка обновления тикета: %w", err)
	}
	return nil
}

func (r *ticketRepository) DeleteTicket(ctx context.Context, tx pgx.Tx, ticketID string) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Delete(ticketTable).Where(sq.Eq{"ticket_id": ticketID}).ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL delete: %w", err)
	}
	result, err := r.getQuerier(tx).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка удаления тикета: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}
