// Package supportapi - HTTP-клиент REST API тикетов. Реализует
// ticketlist.TicketAPI.
package supportapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"support-system/internal/ticketlist"
)

type Option func(*Provider)

func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// WithUnauthorizedHandler вызывается на каждый ответ 401, например чтобы
// стереть токен и отправить пользователя на логин.
func WithUnauthorizedHandler(fn func()) Option {
	return func(p *Provider) { p.onUnauthorized = fn }
}

type Provider struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	logger         *zap.Logger
	onUnauthorized func()
}

var _ ticketlist.TicketAPI = (*Provider)(nil)

func New(baseURL, token string, logger *zap.Logger, opts ...Option) *Provider {
	p := &Provider{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger.Named("support_api"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) ListTickets(ctx context.Context, query url.Values) (*ticketlist.TicketPage, error) {
	var page ticketlist.TicketPage
	if err := p.doJSON(ctx, http.MethodGet, "/api/tickets?"+query.Encode(), nil, &page); err != nil {
		return nil, err
	}
	if page.Tickets == nil {
		page.Tickets = []ticketlist.Ticket{}
	}
	p.logger.Debug("Получен список тикетов",
		zap.Int("count", len(page.Tickets)),
		zap.Int("total", page.Pagination.Total),
	)
	return &page, nil
}

func (p *Provider) GetTicket(ctx context.Context, ticketID string) (*TicketDetail, error) {
	var resp ticketResponse
	if err := p.doJSON(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(ticketID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

func (p *Provider) UpdateTicket(ctx context.Context, ticketID string, req ticketlist.UpdateTicketRequest) error {
	var resp ticketResponse
	if err := p.doJSON(ctx, http.MethodPatch, "/api/tickets/"+url.PathEscape(ticketID), req, &resp); err != nil {
		return err
	}
	p.logger.Info("Тикет обновлен", zap.String("ticket_id", ticketID), zap.String("message", resp.Message))
	return nil
}

func (p *Provider) AssignTicket(ctx context.Context, ticketID, engineerID string) error {
	var resp ticketResponse
	path := "/api/tickets/" + url.PathEscape(ticketID) + "/assign"
	if err := p.doJSON(ctx, http.MethodPost, path, assignRequest{EngineerID: engineerID}, &resp); err != nil {
		return err
	}
	p.logger.Info("Тикет назначен",
		zap.String("ticket_id", ticketID),
		zap.String("engineer_id", engineerID),
		zap.String("status", resp.Ticket.Status),
	)
	return nil
}

func (p *Provider) ChangeStatus(ctx context.Context, ticketID, status string) error {
	var resp ticketResponse
	path := "/api/tickets/" + url.PathEscape(ticketID) + "/status"
	if err := p.doJSON(ctx, http.MethodPost, path, statusRequest{Status: status}, &resp); err != nil {
		return err
	}
	p.logger.Info("Статус тикета изменен", zap.String("ticket_id", ticketID), zap.String("status", status))
	return nil
}

func (p *Provider) DeleteTicket(ctx context.Context, ticketID string) error {
	var resp deleteResponse
	if err := p.doJSON(ctx, http.MethodDelete, "/api/tickets/"+url.PathEscape(ticketID), nil, &resp); err != nil {
		return err
	}
	p.logger.Info("Тикет удален", zap.String("ticket_id", resp.Ticket.TicketID))
	return nil
}

func (p *Provider) History(ctx context.Context, ticketID string) ([]HistoryEntry, error) {
	var resp historyResponse
	if err := p.doJSON(ctx, http.MethodGet, "/api/tickets/"+url.PathEscape(ticketID)+"/history", nil, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// Export скачивает XLSX с тикетами по тем же параметрам, что и список.
func (p *Provider) Export(ctx context.Context, query url.Values) ([]byte, error) {
	return p.doRaw(ctx, "/api/tickets/export?"+query.Encode())
}

func (p *Provider) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := p.doJSON(ctx, http.MethodGet, "/api/settings/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (p *Provider) Priorities(ctx context.Context) ([]ticketlist.PriorityOption, error) {
	var priorities []ticketlist.PriorityOption
	if err := p.doJSON(ctx, http.MethodGet, "/api/settings/priorities", nil, &priorities); err != nil {
		return nil, err
	}
	return priorities, nil
}
