package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "support-system/pkg/errors"
)

// SettingsRepositoryInterface хранит настройки как сырой JSON.
type SettingsRepositoryInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Upsert(ctx context.Context, key string, value []byte) error
}

type SettingsRepository struct {
	storage *pgxpool.Pool
}

func NewSettingsRepository(storage *pgxpool.Pool) SettingsRepositoryInterface {
	return &SettingsRepository{storage: storage}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.storage.QueryRow(ctx, `SELECT value::text FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения настройки %s: %w", key, err)
	}
	return value, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, key string, value []byte) error {
	_, err := r.storage.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("ошибка сохранения настройки %s: %w", key, err)
	}
	return nil
}
