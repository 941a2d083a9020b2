package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"support-system/internal/ticketlist"
)

// stderrNotifier показывает уведомления контроллера в stderr.
type stderrNotifier struct{}

func (stderrNotifier) Alert(message string) {
	fmt.Fprintln(os.Stderr, "⚠ "+message)
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("search", "", "buscar por ID, título, descripción, proyecto o cliente")
	cmd.Flags().String("status", "", "new, assigned, in_progress, waiting, resolved, closed")
	cmd.Flags().String("priority", "", "low, medium, high, critical")
	cmd.Flags().String("category", "", "categoría")
	cmd.Flags().String("date-from", "", "creado desde (AAAA-MM-DD)")
	cmd.Flags().String("date-to", "", "creado hasta (AAAA-MM-DD)")
	cmd.Flags().String("order-by", ticketlist.DefaultOrderBy, "created_at, updated_at, priority, status")
	cmd.Flags().String("order-dir", ticketlist.DefaultOrderDir, "asc o desc")
	cmd.Flags().String("assigned-to", "", "ID del ingeniero asignado")
}

var filterFlags = []struct {
	flag string
	key  ticketlist.FilterKey
}{
	{"search", ticketlist.FieldSearch},
	{"status", ticketlist.FieldStatus},
	{"priority", ticketlist.FieldPriority},
	{"category", ticketlist.FieldCategory},
	{"date-from", ticketlist.FieldDateFrom},
	{"date-to", ticketlist.FieldDateTo},
	{"order-by", ticketlist.FieldOrderBy},
	{"order-dir", ticketlist.FieldOrderDir},
	{"assigned-to", ticketlist.FieldAssignedTo},
}

// setFilterFlags передает в панель фильтров только явно заданные флаги.
// Каждый вызов SetField у панели контроллера перезагружает список, как
// ввод в поле фильтра. Возвращает число примененных флагов.
func setFilterFlags(ctx context.Context, cmd *cobra.Command, fm *ticketlist.FilterManager) (int, error) {
	applied := 0
	for _, f := range filterFlags {
		if !cmd.Flags().Changed(f.flag) {
			continue
		}
		value, err := cmd.Flags().GetString(f.flag)
		if err != nil {
			return applied, err
		}
		if _, err := fm.SetField(ctx, f.key, value); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// newController создает контроллер списка и загружает справочники.
// Список загружается первым изменением фильтра или LoadTickets.
func newController(ctx context.Context) *ticketlist.Controller {
	c := ticketlist.NewController(api, session, logger,
		ticketlist.WithPerPage(perPage),
		ticketlist.WithNotifier(stderrNotifier{}),
	)
	c.LoadOptions(ctx)
	return c
}

// loadFiltered применяет флаги фильтров через панель контроллера. Без
// флагов загружается первая страница с фильтрами по умолчанию.
func loadFiltered(ctx context.Context, cmd *cobra.Command) (*ticketlist.Controller, error) {
	c := newController(ctx)
	applied, err := setFilterFlags(ctx, cmd, c.FilterManager())
	if err != nil {
		return nil, err
	}
	if applied == 0 {
		if err := c.LoadTickets(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Listar tickets con filtros y paginación",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")

		ctx := cmd.Context()
		c, err := loadFiltered(ctx, cmd)
		if err != nil {
			return err
		}
		if page > 1 {
			if err := c.ChangePage(ctx, page-1); err != nil {
				return fmt.Errorf("página %d: %w", page, err)
			}
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), c.View())
		}
		printView(cmd.OutOrStdout(), c.View())
		return nil
	},
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().Int("page", 1, "número de página")
}
