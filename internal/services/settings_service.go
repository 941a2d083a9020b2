package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"support-system/internal/dto"
	"support-system/internal/entities"
	"support-system/internal/repositories"
	"support-system/pkg/constants"
	apperrors "support-system/pkg/errors"
)

var DefaultCategories = []string{"Eléctrico", "Mecánico", "Rendimiento", "Otro"}

var DefaultPriorities = []entities.PrioritySetting{
	{Name: constants.PriorityCritical, Color: "#dc2626", SLAHours: 4},
	{Name: constants.PriorityHigh, Color: "#ea580c", SLAHours: 24},
	{Name: constants.PriorityMedium, Color: "#2563eb", SLAHours: 48},
	{Name: constants.PriorityLow, Color: "#6b7280", SLAHours: 72},
}

type SettingsServiceInterface interface {
	Categories(ctx context.Context) ([]string, error)
	Priorities(ctx context.Context) ([]dto.PriorityDTO, error)
	// PrioritySLAHours - часы решения для приоритета, 0 если не настроено.
	PrioritySLAHours(ctx context.Context, priority string) int
	SaveCategories(ctx context.Context, categories []string) error
	SavePriorities(ctx context.Context, priorities []entities.PrioritySetting) error
}

type settingsService struct {
	repo     repositories.SettingsRepositoryInterface
	cache    repositories.CacheRepositoryInterface
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewSettingsService(
	repo repositories.SettingsRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) SettingsServiceInterface {
	return &settingsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger.Named("settings")}
}

// load читает настройку: кеш, затем БД. found == false - настройки нет,
// вызывающий подставляет значения по умолчанию.
func (s *settingsService) load(ctx context.Context, key string, target interface{}) (found bool, err error) {
	cacheKey := fmt.Sprintf(constants.CacheKeySetting, key)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			if jsonErr := json.Unmarshal([]byte(cached), target); jsonErr == nil {
				return true, nil
			}
			s.logger.Warn("Битое значение в кеше, читаем из БД", zap.String("key", cacheKey))
		case !errors.Is(err, repositories.ErrCacheMiss):
			s.logger.Warn("Кеш недоступен", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	raw, err := s.repo.Get(ctx, key)
	if errors.Is(err, apperrors.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn("Настройка в БД не разбирается, используем значения по умолчанию",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, string(raw), s.cacheTTL); err != nil {
			s.logger.Warn("Не удалось записать настройку в кеш", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return true, nil
}

func (s *settingsService) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	found, err := s.load(ctx, constants.SettingCategories, &categories)
	if err != nil {
		return nil, err
	}
	if !found || len(categories) == 0 {
		return append([]string(nil), DefaultCategories...), nil
	}
	return categories, nil
}

func (s *settingsService) priorities(ctx context.Context) ([]entities.PrioritySetting, error) {
	var priorities []entities.PrioritySetting
	found, err := s.load(ctx, constants.SettingPriorities, &priorities)
	if err != nil {
		return nil, err
	}
	if !found || len(priorities) == 0 {
		return append([]entities.PrioritySetting(nil), DefaultPriorities...), nil
	}
	return priorities, nil
}

func (s *settingsService) Priorities(ctx context.Context) ([]dto.PriorityDTO, error) {
	priorities, err := s.priorities(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.PriorityDTO, 0, len(priorities))
	for _, p := range priorities {
		result = append(result, dto.PriorityDTO{Name: p.Name, Color: p.Color, SLAHours: p.SLAHours})
	}
	return result, nil
}

func (s *settingsService) PrioritySLAHours(ctx context.Context, priority string) int {
	priorities, err := s.priorities(ctx)
	if err != nil {
		s.logger.Warn("Не удалось получить SLA приоритета", zap.String("priority", priority), zap.Error(err))
		return 0
	}
	for _, p := range priorities {
		if p.Name == priority {
			return p.SLAHours
		}
	}
	return 0
}

func (s *settingsService) save(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, key, raw); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, fmt.Sprintf(constants.CacheKeySetting, key)); err != nil {
			s.logger.Warn("Не удалось сбросить кеш настройки", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}

func (s *settingsService) SaveCategories(ctx context.Context, categories []string) error {
	return s.save(ctx, constants.SettingCategories, categories)
}

func (s *settingsService) SavePriorities(ctx context.Context, priorities []entities.PrioritySetting) error {
	return s.save(ctx, constants.SettingPriorities, priorities)
}
