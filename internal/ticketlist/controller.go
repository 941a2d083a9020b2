package ticketlist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

var (
	ErrForbidden      = errors.New("ticketlist: действие недоступно для роли")
	ErrValidation     = errors.New("ticketlist: форма заполнена неверно")
	ErrPageOutOfRange = errors.New("ticketlist: страница вне диапазона")
	ErrTicketNotFound = errors.New("ticketlist: тикета нет в текущем списке")
	// ErrSessionExpired - запрос брошен из-за 401. Редирект на логин делает
	// внешний код, контроллер просто ничего не фиксирует.
	ErrSessionExpired = errors.New("ticketlist: сессия истекла")
)

const (
	MsgLoadFailed    = "Error al cargar tickets"
	MsgUpdateFailed  = "Error al actualizar ticket"
	MsgDeleteFailed  = "Error al eliminar ticket"
	MsgAssignFailed  = "Error al asignar ticket"
	MsgStatusFailed  = "Error al cambiar estado"
	MsgTitleRequired = "El título es obligatorio"
)

// userMessager реализуют ошибки, несущие сообщение сервера.
type userMessager interface {
	UserMessage() string
}

func errorMessage(err error, fallback string) string {
	var m userMessager
	if errors.As(err, &m) && m.UserMessage() != "" {
		return m.UserMessage()
	}
	return fallback
}

func abandoned(ctx context.Context, err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, context.Canceled) ||
		ctx.Err() != nil
}

type Option func(*Controller)

func WithPerPage(perPage int) Option {
	return func(c *Controller) {
		if perPage > 0 {
			c.pagination.PerPage = perPage
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithScrollLock(l ScrollLock) Option {
	return func(c *Controller) { c.scroll = l }
}

func WithFilters(f FilterState) Option {
	return func(c *Controller) { c.filters = f }
}

// Controller владеет пагинацией, жизненным циклом загрузки, действиями над
// строками и модальными окнами одного представления списка.
//
// Каждый запрос списка получает порядковый номер; ответ, который не новее
// последнего зафиксированного, отбрасывается.
type Controller struct {
	api       TicketAPI
	session   Session
	logger    *zap.Logger
	notifier  Notifier
	scroll    ScrollLock
	validate  *validator.Validate
	filterMgr *FilterManager

	mu         sync.Mutex
	filters    FilterState
	pagination Pagination
	tickets    []Ticket
	phase      Phase
	errMsg     string
	issued     uint64
	committed  uint64

	modal    Modal
	form     EditForm
	modalErr string

	categories []string
	priorities []PriorityOption
}

func NewController(api TicketAPI, session Session, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		api:        api,
		session:    session,
		logger:     logger.Named("ticket_list"),
		notifier:   noopNotifier{},
		scroll:     noopScrollLock{},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		filters:    DefaultFilterState(),
		pagination: Pagination{Page: 1, PerPage: DefaultPerPage},
		tickets:    []Ticket{},
		categories: DefaultCategories(),
		priorities: DefaultPriorities(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.filterMgr = NewFilterManager(c.ApplyFilters)
	c.filterMgr.seed(c.filters)
	return c
}

// FilterManager - панель фильтров этого списка. Каждое изменение через нее
// перезагружает первую страницу.
func (c *Controller) FilterManager() *FilterManager { return c.filterMgr }

// Mount - первичная загрузка: справочники и первая страница.
func (c *Controller) Mount(ctx context.Context) error {
	c.LoadOptions(ctx)
	return c.LoadTickets(ctx)
}

func (c *Controller) LoadOptions(ctx context.Context) {
	categories, priorities := fetchOptions(ctx, c.api, c.logger)
	c.mu.Lock()
	c.categories = categories
	c.priorities = priorities
	c.mu.Unlock()
}

// LoadTickets запрашивает текущую страницу с текущими фильтрами. При ошибке
// прежний список сохраняется, выставляется сообщение об ошибке.
func (c *Controller) LoadTickets(ctx context.Context) error {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	query := BuildQuery(c.filters, c.pagination.Page, c.pagination.PerPage)
	requestedPage, perPage := c.pagination.Page, c.pagination.PerPage
	restore := c.phase
	if restore == PhaseLoading {
		restore = PhaseIdle
	}
	c.phase = PhaseLoading
	c.mu.Unlock()

	c.logger.Debug("Загрузка списка тикетов", zap.Uint64("seq", seq), zap.String("query", query.Encode()))

	page, err := c.api.ListTickets(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.committed {
		c.logger.Debug("Устаревший ответ отброшен", zap.Uint64("seq", seq), zap.Uint64("committed", c.committed))
		return nil
	}
	latest := seq == c.issued

	if err != nil && abandoned(ctx, err) {
		if latest {
			c.phase = restore
		}
		c.logger.Info("Загрузка списка прервана", zap.Uint64("seq", seq), zap.Error(err))
		return err
	}

	c.committed = seq
	if err != nil {
		c.errMsg = errorMessage(err, MsgLoadFailed)
		if latest {
			c.phase = PhaseError
		}
		c.logger.Warn("Не удалось загрузить тикеты", zap.Uint64("seq", seq), zap.Error(err))
		return err
	}

	tickets := page.Tickets
	if tickets == nil {
		tickets = []Ticket{}
	}
	pagination := page.Pagination
	if pagination.Page == 0 {
		pagination.Page = requestedPage
	}
	if pagination.PerPage == 0 {
		pagination.PerPage = perPage
	}

	c.tickets = tickets
	c.pagination = pagination
	c.errMsg = ""
	if latest {
		c.phase = PhaseSuccess
	}
	return nil
}

// ApplyFilters принимает новый снимок фильтров, сбрасывает страницу на
// первую и перезагружает список.
func (c *Controller) ApplyFilters(ctx context.Context, filters FilterState) error {
	c.filterMgr.seed(filters)
	c.mu.Lock()
	c.filters = filters
	c.pagination.Page = 1
	c.mu.Unlock()
	return c.LoadTickets(ctx)
}

func (c *Controller) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination.Page > 1
}

func (c *Controller) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination.Page < c.pagination.Pages
}

// ChangePage сдвигает страницу на delta. Ниже первой и вперед за последнюю
// перейти нельзя, перехода по кругу нет. Назад можно и со страницы за
// пределами pages (например, после удаления последних тикетов).
func (c *Controller) ChangePage(ctx context.Context, delta int) error {
	c.mu.Lock()
	target := c.pagination.Page + delta
	if delta == 0 || target < 1 || (delta > 0 && target > c.pagination.Pages) {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.pagination.Page = target
	c.mu.Unlock()
	return c.LoadTickets(ctx)
}

func (c *Controller) findTicket(ticketID string) (*Ticket, error) {
	for i := range c.tickets {
		if c.tickets[i].TicketID == ticketID {
			t := c.tickets[i]
			return &t, nil
		}
	}
	return nil, ErrTicketNotFound
}

// openModal вызывается под мьютексом.
func (c *Controller) openModal(m Modal) error {
	if c.modal.Open() {
		return ErrModalActive
	}
	c.modal = m
	c.modalErr = ""
	c.scroll.Lock()
	return nil
}

func (c *Controller) OpenEdit(ticketID string) error {
	if !ActionsFor(c.session.Role).Edit {
		return ErrForbidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ticket, err := c.findTicket(ticketID)
	if err != nil {
		return err
	}
	if err := c.openModal(Modal{Kind: ModalEdit, Ticket: ticket}); err != nil {
		return err
	}
	c.form = EditForm{
		Title:    ticket.Title,
		Priority: ticket.Priority,
		Category: ticket.Category,
	}
	return nil
}

func (c *Controller) OpenDelete(ticketID string) error {
	if !ActionsFor(c.session.Role).Delete {
		return ErrForbidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ticket, err := c.findTicket(ticketID)
	if err != nil {
		return err
	}
	return c.openModal(Modal{Kind: ModalDelete, Ticket: ticket})
}

func (c *Controller) OpenQR(ticketID string) error {
	if !ActionsFor(c.session.Role).GenerateQR {
		return ErrForbidden
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ticket, err := c.findTicket(ticketID)
	if err != nil {
		return err
	}
	return c.openModal(Modal{Kind: ModalQR, ProjectID: ticket.ProjectID})
}

// CloseModal - кнопка закрытия, клик по подложке, отмена.
func (c *Controller) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeModalLocked()
}

func (c *Controller) closeModalLocked() {
	if !c.modal.Open() {
		return
	}
	c.modal = Modal{}
	c.form = EditForm{}
	c.modalErr = ""
	c.scroll.Unlock()
}

func (c *Controller) SetEditField(field EditField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal.Kind != ModalEdit {
		return ErrNoModal
	}
	switch field {
	case EditTitle:
		c.form.Title = value
	case EditDescription:
		c.form.Description = value
	case EditPriority:
		c.form.Priority = value
	case EditCategory:
		c.form.Category = value
	default:
		return fmt.Errorf("%w: поле %q", ErrValidation, field)
	}
	return nil
}

// SubmitEdit отправляет только title, priority и category. При успехе окно
// закрывается и список перезагружается; при ошибке окно остается открытым.
func (c *Controller) SubmitEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.modal.Kind != ModalEdit {
		c.mu.Unlock()
		return ErrNoModal
	}
	form := c.form
	ticketID := c.modal.Ticket.TicketID
	c.mu.Unlock()

	if err := c.validate.Struct(form); err != nil {
		c.mu.Lock()
		c.modalErr = MsgTitleRequired
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	err := c.api.UpdateTicket(ctx, ticketID, UpdateTicketRequest{
		Title:    form.Title,
		Priority: form.Priority,
		Category: form.Category,
	})
	if err != nil {
		msg := errorMessage(err, MsgUpdateFailed)
		c.mu.Lock()
		c.modalErr = msg
		c.mu.Unlock()
		c.logger.Warn("Не удалось обновить тикет", zap.String("ticket_id", ticketID), zap.Error(err))
		c.notifier.Alert(msg)
		return err
	}

	c.finishModal(ModalEdit, ticketID)
	c.reload(ctx)
	return nil
}

// ConfirmDelete удаляет выбранный тикет. При успехе выбор сбрасывается и
// список перезагружается с теми же фильтрами и страницей.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.modal.Kind != ModalDelete {
		c.mu.Unlock()
		return ErrNoModal
	}
	ticketID := c.modal.Ticket.TicketID
	c.mu.Unlock()

	if err := c.api.DeleteTicket(ctx, ticketID); err != nil {
		msg := errorMessage(err, MsgDeleteFailed)
		c.mu.Lock()
		c.modalErr = msg
		c.mu.Unlock()
		c.logger.Warn("Не удалось удалить тикет", zap.String("ticket_id", ticketID), zap.Error(err))
		c.notifier.Alert(msg)
		return err
	}

	c.finishModal(ModalDelete, ticketID)
	c.reload(ctx)
	return nil
}

// AssignTicket назначает тикет из текущего списка инженеру и перезагружает
// список. Ошибка показывается через Notifier.
func (c *Controller) AssignTicket(ctx context.Context, ticketID, engineerID string) error {
	if !ActionsFor(c.session.Role).Assign {
		return ErrForbidden
	}
	return c.rowMutation(ctx, ticketID, MsgAssignFailed, func() error {
		return c.api.AssignTicket(ctx, ticketID, engineerID)
	})
}

// ChangeStatus меняет статус тикета из текущего списка и перезагружает список.
func (c *Controller) ChangeStatus(ctx context.Context, ticketID, status string) error {
	if !ActionsFor(c.session.Role).ChangeStatus {
		return ErrForbidden
	}
	return c.rowMutation(ctx, ticketID, MsgStatusFailed, func() error {
		return c.api.ChangeStatus(ctx, ticketID, status)
	})
}

func (c *Controller) rowMutation(ctx context.Context, ticketID, fallback string, call func() error) error {
	c.mu.Lock()
	_, err := c.findTicket(ticketID)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	if err := call(); err != nil {
		msg := errorMessage(err, fallback)
		c.logger.Warn("Действие над тикетом не выполнено", zap.String("ticket_id", ticketID), zap.Error(err))
		c.notifier.Alert(msg)
		return err
	}
	c.reload(ctx)
	return nil
}

// finishModal закрывает окно, если за время запроса его не сменили.
func (c *Controller) finishModal(kind ModalKind, ticketID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal.Kind == kind && c.modal.Ticket != nil && c.modal.Ticket.TicketID == ticketID {
		c.closeModalLocked()
	}
}

// reload - перезагрузка после мутации; ошибка уже отражена в состоянии.
func (c *Controller) reload(ctx context.Context) {
	if err := c.LoadTickets(ctx); err != nil {
		c.logger.Debug("Перезагрузка после изменения не удалась", zap.Error(err))
	}
}

func (c *Controller) Session() Session { return c.session }

func (c *Controller) Filters() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters
}

func (c *Controller) Pagination() Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Tickets возвращает копию текущего списка.
func (c *Controller) Tickets() []Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Ticket, len(c.tickets))
	copy(out, c.tickets)
	return out
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *Controller) Modal() Modal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal
}

// SelectedTicket - тикет активного окна редактирования или удаления.
func (c *Controller) SelectedTicket() *Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal.Ticket
}

func (c *Controller) EditForm() EditForm {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Controller) ModalError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalErr
}

func (c *Controller) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.categories...)
}

func (c *Controller) Priorities() []PriorityOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]PriorityOption(nil), c.priorities...)
}
