// Package ticketlist содержит ядро списка тикетов: состояние фильтров,
// контроллер загрузки/пагинации и модальные сценарии (редактирование,
// удаление, QR), зависящие от роли пользователя.
package ticketlist

import (
	"context"
	"errors"
	"sync"
)

// FilterKey - имя поля FilterState.
type FilterKey string

const (
	FieldSearch     FilterKey = "search"
	FieldStatus     FilterKey = "status"
	FieldPriority   FilterKey = "priority"
	FieldCategory   FilterKey = "category"
	FieldDateFrom   FilterKey = "dateFrom"
	FieldDateTo     FilterKey = "dateTo"
	FieldOrderBy    FilterKey = "orderBy"
	FieldOrderDir   FilterKey = "orderDir"
	FieldAssignedTo FilterKey = "assignedTo"
)

const (
	DefaultOrderBy  = "created_at"
	DefaultOrderDir = "desc"
)

var ErrUnknownFilterField = errors.New("ticketlist: неизвестное поле фильтра")

// FilterState - полный набор параметров поиска, фильтрации и сортировки.
// Пустая строка означает "без ограничения". Значения перечислений не
// проверяются: их валидирует сервер.
type FilterState struct {
	Search     string `json:"search"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	Category   string `json:"category"`
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
	OrderBy    string `json:"orderBy"`
	OrderDir   string `json:"orderDir"`
	AssignedTo string `json:"assignedTo,omitempty"`
}

func DefaultFilterState() FilterState {
	return FilterState{OrderBy: DefaultOrderBy, OrderDir: DefaultOrderDir}
}

// With возвращает копию с одним замененным полем.
func (f FilterState) With(key FilterKey, value string) (FilterState, error) {
	switch key {
	case FieldSearch:
		f.Search = value
	case FieldStatus:
		f.Status = value
	case FieldPriority:
		f.Priority = value
	case FieldCategory:
		f.Category = value
	case FieldDateFrom:
		f.DateFrom = value
	case FieldDateTo:
		f.DateTo = value
	case FieldOrderBy:
		f.OrderBy = value
	case FieldOrderDir:
		f.OrderDir = value
	case FieldAssignedTo:
		f.AssignedTo = value
	default:
		return f, ErrUnknownFilterField
	}
	return f, nil
}

// ActiveCount - количество заполненных полей среди search, status, priority,
// category, dateFrom, dateTo и assignedTo. Сортировка не считается.
func (f FilterState) ActiveCount() int {
	count := 0
	for _, v := range []string{f.Search, f.Status, f.Priority, f.Category, f.DateFrom, f.DateTo, f.AssignedTo} {
		if v != "" {
			count++
		}
	}
	return count
}

// FilterListener получает каждый новый снимок состояния. Его ошибка
// возвращается из SetField и Clear, но изменение фильтра не отменяет.
type FilterListener func(ctx context.Context, fs FilterState) error

// FilterManager хранит единственный актуальный FilterState и синхронно
// сообщает подписчику о каждом изменении. Дебаунса нет: каждый вызов
// SetField приводит к новому запросу у подписчика.
type FilterManager struct {
	mu           sync.Mutex
	state        FilterState
	panelVisible bool
	listener     FilterListener
}

func NewFilterManager(listener FilterListener) *FilterManager {
	return &FilterManager{state: DefaultFilterState(), listener: listener}
}

// Subscribe заменяет подписчика.
func (m *FilterManager) Subscribe(listener FilterListener) {
	m.mu.Lock()
	m.listener = listener
	m.mu.Unlock()
}

func (m *FilterManager) State() FilterState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// seed задает начальное состояние без уведомления.
func (m *FilterManager) seed(fs FilterState) {
	m.mu.Lock()
	m.state = fs
	m.mu.Unlock()
}

func (m *FilterManager) SetField(ctx context.Context, key FilterKey, value string) (FilterState, error) {
	m.mu.Lock()
	next, err := m.state.With(key, value)
	if err != nil {
		current := m.state
		m.mu.Unlock()
		return current, err
	}
	m.state = next
	m.mu.Unlock()

	return next, m.notify(ctx, next)
}

func (m *FilterManager) Clear(ctx context.Context) (FilterState, error) {
	m.mu.Lock()
	m.state = DefaultFilterState()
	next := m.state
	m.mu.Unlock()

	return next, m.notify(ctx, next)
}

func (m *FilterManager) notify(ctx context.Context, fs FilterState) error {
	m.mu.Lock()
	listener := m.listener
	m.mu.Unlock()
	if listener == nil {
		return nil
	}
	return listener(ctx, fs)
}

func (m *FilterManager) ActiveFilterCount() int {
	return m.State().ActiveCount()
}

// TogglePanel переключает видимость панели фильтров. Запрос не выполняется.
func (m *FilterManager) TogglePanel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panelVisible = !m.panelVisible
	return m.panelVisible
}

func (m *FilterManager) PanelVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.panelVisible
}
