package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"support-system/internal/entities"
)

type TicketHistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.TicketHistory) error
	FindByTicketID(ctx context.Context, ticketID string) ([]entities.TicketHistory, error)
}

type TicketHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewTicketHistoryRepository(storage *pgxpool.Pool) TicketHistoryRepositoryInterface {
	return &TicketHistoryRepository{storage: storage}
}

// CreateInTx присваивает записи HistoryID, если он пуст.
func (r *TicketHistoryRepository) CreateInTx(ctx context.Context, tx pgx.Tx, history *entities.TicketHistory) error {
	if history.HistoryID == uuid.Nil {
		history.HistoryID = uuid.New()
	}
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert("ticket_history").
		Columns("history_id", "ticket_id", "user_id", "action", "field_changed", "old_value", "new_value").
		Values(history.HistoryID, history.TicketID, history.UserID, history.Action,
			history.FieldChanged, history.OldValue, history.NewValue).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL insert ticket_history: %w", err)
	}
	return tx.QueryRow(ctx, query, args...).Scan(&history.CreatedAt)
}

// FindByTicketID - история тикета, новые записи первыми.
func (r *TicketHistoryRepository) FindByTicketID(ctx context.Context, ticketID string) ([]entities.TicketHistory, error) {
	query := `
		SELECT h.history_id, h.ticket_id, h.user_id, u.full_name AS user_name,
			h.action, h.field_changed, h.old_value, h.new_value, h.created_at
		FROM ticket_history h
		LEFT JOIN users u ON u.user_id = h.user_id
		WHERE h.ticket_id = $1
		ORDER BY h.created_at DESC, h.history_id`

	rows, err := r.storage.Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения истории тикета: %w", err)
	}
	defer rows.Close()

	history := make([]entities.TicketHistory, 0)
	for rows.Next() {
		var h entities.TicketHistory
		if err := rows.Scan(
			&h.HistoryID, &h.TicketID, &h.UserID, &h.UserName,
			&h.Action, &h.FieldChanged, &h.OldValue, &h.NewValue, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования ticket_history: %w", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}
