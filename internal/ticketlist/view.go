package ticketlist

import "fmt"

const (
	EmptyListMessage   = "No se encontraron tickets"
	NoClientLabel      = "N/A"
	UnassignedLabel    = "Sin asignar"
	paginationTemplate = "Página %d de %d (%d tickets)"
)

var statusLabels = map[string]string{
	"new":         "Nuevo",
	"assigned":    "Asignado",
	"in_progress": "En Progreso",
	"waiting":     "Esperando",
	"resolved":    "Resuelto",
	"closed":      "Cerrado",
}

var priorityLabels = map[string]string{
	"low":      "Baja",
	"medium":   "Media",
	"high":     "Alta",
	"critical": "Crítica",
}

// StatusLabel возвращает подпись статуса; неизвестное значение выводится как есть.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

func PriorityLabel(priority string) string {
	if label, ok := priorityLabels[priority]; ok {
		return label
	}
	return priority
}

type Row struct {
	TicketID      string     `json:"ticket_id"`
	Title         string     `json:"title"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	Priority      string     `json:"priority"`
	PriorityLabel string     `json:"priority_label"`
	Category      string     `json:"category"`
	ProjectID     string     `json:"project_id"`
	ClientName    string     `json:"client_name,omitempty"`
	EngineerName  string     `json:"engineer_name"`
	CreatedAt     string     `json:"created_at"`
	Actions       RowActions `json:"actions"`
}

// View - неизменяемый снимок для отрисовки таблицы или карточек.
type View struct {
	Rows             []Row      `json:"rows"`
	ShowClientColumn bool       `json:"show_client_column"`
	ShowActions      bool       `json:"show_actions"`
	Loading          bool       `json:"loading"`
	Error            string     `json:"error,omitempty"`
	Empty            string     `json:"empty,omitempty"`
	Pagination       Pagination `json:"pagination"`
	ShowPagination   bool       `json:"show_pagination"`
	PageCaption      string     `json:"page_caption,omitempty"`
	CanPrev          bool       `json:"can_prev"`
	CanNext          bool       `json:"can_next"`
	Modal            Modal      `json:"-"`
	ActiveFilters    int        `json:"active_filters"`
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	role := c.session.Role
	actions := ActionsFor(role)
	showClient := ShowClientColumn(role)

	v := View{
		Rows:             make([]Row, 0, len(c.tickets)),
		ShowClientColumn: showClient,
		ShowActions:      actions.Any(),
		Loading:          c.phase == PhaseLoading,
		Error:            c.errMsg,
		Pagination:       c.pagination,
		ShowPagination:   c.pagination.Pages > 1,
		CanPrev:          c.pagination.Page > 1,
		CanNext:          c.pagination.Page < c.pagination.Pages,
		Modal:            c.modal,
		ActiveFilters:    c.filters.ActiveCount(),
	}
	if v.ShowPagination {
		v.PageCaption = fmt.Sprintf(paginationTemplate, c.pagination.Page, c.pagination.Pages, c.pagination.Total)
	}

	for _, t := range c.tickets {
		row := Row{
			TicketID:      t.TicketID,
			Title:         t.Title,
			Status:        t.Status,
			StatusLabel:   StatusLabel(t.Status),
			Priority:      t.Priority,
			PriorityLabel: PriorityLabel(t.Priority),
			Category:      t.Category,
			ProjectID:     t.ProjectID,
			EngineerName:  UnassignedLabel,
			CreatedAt:     t.CreatedAt,
			Actions:       actions,
		}
		if showClient {
			row.ClientName = NoClientLabel
			if t.Client != nil && t.Client.FullName != "" {
				row.ClientName = t.Client.FullName
			}
		}
		if t.AssignedEngineer != nil && t.AssignedEngineer.FullName != "" {
			row.EngineerName = t.AssignedEngineer.FullName
		}
		v.Rows = append(v.Rows, row)
	}

	if len(v.Rows) == 0 && c.phase == PhaseSuccess {
		v.Empty = EmptyListMessage
	}
	return v
}
