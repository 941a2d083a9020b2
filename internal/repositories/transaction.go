package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// TxManagerInterface - единица работы над тикетом: строка тикета под
// FOR UPDATE и записи ticket_history фиксируются вместе или не фиксируются.
type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type ticketTxManager struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTxManager(pool *pgxpool.Pool, logger *zap.Logger) TxManagerInterface {
	return &ticketTxManager{pool: pool, logger: logger}
}

// правки одного тикета сериализует FOR UPDATE в FindTicket
var ticketTxOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

func (m *ticketTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, ticketTxOptions)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию тикета: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			m.logger.Debug("Изменение тикета откатывается", zap.Error(err))
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = fmt.Errorf("откат транзакции тикета: %v (исходная ошибка: %w)", rbErr, err)
			}
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("коммит транзакции тикета: %w", err)
		}
	}()

	return fn(tx)
}
