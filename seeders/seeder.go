package seeders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"support-system/internal/entities"
	"support-system/internal/repositories"
	"support-system/internal/services"
	apperrors "support-system/pkg/errors"
)

// SeedSettings записывает категории и приоритеты по умолчанию.
func SeedSettings(ctx context.Context, settings services.SettingsServiceInterface, logger *zap.Logger) error {
	logger.Info("Наполнение настроек")
	if err := settings.SaveCategories(ctx, services.DefaultCategories); err != nil {
		return fmt.Errorf("категории: %w", err)
	}
	if err := settings.SavePriorities(ctx, services.DefaultPriorities); err != nil {
		return fmt.Errorf("приоритеты: %w", err)
	}
	return nil
}

// SeedUsers создает демо-пользователей с общим паролем. Существующие email
// пропускаются. Возвращает пользователей по ролям.
func SeedUsers(ctx context.Context, users repositories.UserRepositoryInterface, password string, logger *zap.Logger) (map[string]*entities.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка при генерации хеша: %w", err)
	}

	byRole := make(map[string]*entities.User, len(demoUsers))
	for _, u := range demoUsers {
		err := users.Create(ctx, nil, entities.User{
			UserID:       uuid.NewString(),
			Email:        u.Email,
			FullName:     u.FullName,
			PasswordHash: string(hash),
			Role:         u.Role,
		})
		if err != nil {
			return nil, err
		}
		stored, err := users.FindByEmail(ctx, u.Email)
		if err != nil {
			return nil, fmt.Errorf("пользователь %s не найден после вставки: %w", u.Email, err)
		}
		byRole[u.Role] = stored
		logger.Info("Пользователь готов", zap.String("email", u.Email), zap.String("role", u.Role))
	}
	return byRole, nil
}

// SeedTickets создает демо-тикеты GH-0001... Уже существующие ID пропускаются.
func SeedTickets(ctx context.Context, tickets repositories.TicketRepositoryInterface, client, engineer *entities.User, logger *zap.Logger) error {
	now := time.Now().UTC()
	for i, t := range demoTickets {
		id := fmt.Sprintf("GH-%04d", i+1)
		if _, err := tickets.FindTicket(ctx, nil, id); err == nil {
			logger.Info("Тикет уже существует, пропускаем", zap.String("ticket_id", id))
			continue
		} else if !errors.Is(err, apperrors.ErrTicketNotFound) {
			return err
		}

		createdAt := now.Add(-time.Duration(len(demoTickets)-i) * 6 * time.Hour)
		response, resolution := services.CalculateDeadlines(createdAt, t.Priority, 0)
		ticket := entities.Ticket{
			TicketID:              id,
			Title:                 t.Title,
			Description:           t.Description,
			Status:                t.Status,
			Priority:              t.Priority,
			Category:              t.Category,
			ProjectID:             t.ProjectID,
			ClientID:              client.UserID,
			SLAResponseDeadline:   null.TimeFrom(response),
			SLAResolutionDeadline: null.TimeFrom(resolution),
			CreatedAt:             createdAt,
			UpdatedAt:             createdAt,
		}
		if t.Assigned {
			ticket.AssignedTo = null.StringFrom(engineer.UserID)
		}
		if err := tickets.CreateTicket(ctx, nil, ticket); err != nil {
			return err
		}
	}
	logger.Info("Тикеты готовы", zap.Int("count", len(demoTickets)))
	return nil
}
