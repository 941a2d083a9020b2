package ticketlist

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func DefaultCategories() []string {
	return []string{"Eléctrico", "Mecánico", "Rendimiento", "Otro"}
}

func DefaultPriorities() []PriorityOption {
	return []PriorityOption{
		{Value: "low", Label: "Baja", Color: "#10b981"},
		{Value: "medium", Label: "Media", Color: "#f59e0b"},
		{Value: "high", Label: "Alta", Color: "#ef4444"},
		{Value: "critical", Label: "Crítica", Color: "#dc2626"},
	}
}

// fetchOptions загружает оба справочника параллельно. Каждый падает на
// значения по умолчанию независимо от другого.
func fetchOptions(ctx context.Context, api TicketAPI, logger *zap.Logger) ([]string, []PriorityOption) {
	var (
		categories []string
		priorities []PriorityOption
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := api.Categories(gctx)
		if err != nil || len(list) == 0 {
			logger.Warn("Категории недоступны, используются значения по умолчанию", zap.Error(err))
			categories = DefaultCategories()
			return nil
		}
		categories = list
		return nil
	})
	g.Go(func() error {
		list, err := api.Priorities(gctx)
		if err != nil || len(list) == 0 {
			logger.Warn("Приоритеты недоступны, используются значения по умолчанию", zap.Error(err))
			priorities = DefaultPriorities()
			return nil
		}
		priorities = list
		return nil
	})
	_ = g.Wait()

	return categories, priorities
}
