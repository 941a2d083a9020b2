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
	apperrors "support-system/pkg/errors"
)

const (
	userTable  = "users"
	userFields = "user_id, email, full_name, password_hash, role, created_at"
)

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, userID string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	Create(ctx context.Context, tx pgx.Tx, user entities.User) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	err := row.Scan(&user.UserID, &user.Email, &user.FullName, &user.PasswordHash, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (*entities.User, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select(userFields).From(userTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки SQL для users: %w", err)
	}
	return scanUser(r.storage.QueryRow(ctx, query, args...))
}

func (r *UserRepository) FindByID(ctx context.Context, userID string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"user_id": userID})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, sq.Eq{"email": email})
}

// Create вставляет пользователя; существующий email не трогает.
func (r *UserRepository) Create(ctx context.Context, tx pgx.Tx, user entities.User) error {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Insert(userTable).
		Columns("user_id", "email", "full_name", "password_hash", "role").
		Values(user.UserID, user.Email, user.FullName, user.PasswordHash, user.Role).
		Suffix("ON CONFLICT (email) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("ошибка сборки SQL insert users: %w", err)
	}

	var q Querier = r.storage
	if tx != nil {
		q = tx
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("ошибка создания пользователя: %w", err)
	}
	return nil
}
