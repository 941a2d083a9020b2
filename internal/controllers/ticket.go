package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"support-system/internal/dto"
	"support-system/internal/services"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/utils"
)

type TicketController struct {
	ticketService services.TicketServiceInterface
	perPage       uint64
	logger        *zap.Logger
}

func NewTicketController(ticketService services.TicketServiceInterface, perPage uint64, logger *zap.Logger) *TicketController {
	return &TicketController{
		ticketService: ticketService,
		perPage:       perPage,
		logger:        logger,
	}
}

// GetTickets GET /api/tickets
func (c *TicketController) GetTickets(ctx echo.Context) error {
	filter, err := utils.ParseTicketQuery(ctx.QueryParams(), c.perPage)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	resp, err := c.ticketService.ListTickets(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// FindTicket GET /api/tickets/:id
func (c *TicketController) FindTicket(ctx echo.Context) error {
	ticket, err := c.ticketService.GetTicket(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, dto.TicketResponse{Ticket: ticket})
}

// UpdateTicket PATCH /api/tickets/:id
func (c *TicketController) UpdateTicket(ctx echo.Context) error {
	var body dto.UpdateTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Cuerpo de la solicitud no válido", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	resp, err := c.ticketService.UpdateTicket(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// AssignTicket POST /api/tickets/:id/assign
func (c *TicketController) AssignTicket(ctx echo.Context) error {
	var body dto.AssignTicketDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Cuerpo de la solicitud no válido", err, nil), c.logger)
	}

	resp, err := c.ticketService.AssignTicket(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// ChangeStatus POST /api/tickets/:id/status
func (c *TicketController) ChangeStatus(ctx echo.Context) error {
	var body dto.ChangeStatusDTO
	if err := ctx.Bind(&body); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Cuerpo de la solicitud no válido", err, nil), c.logger)
	}
	if err := ctx.Validate(&body); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	resp, err := c.ticketService.ChangeStatus(ctx.Request().Context(), ctx.Param("id"), body)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// DeleteTicket DELETE /api/tickets/:id
func (c *TicketController) DeleteTicket(ctx echo.Context) error {
	resp, err := c.ticketService.DeleteTicket(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// GetHistory GET /api/tickets/:id/history
func (c *TicketController) GetHistory(ctx echo.Context) error {
	resp, err := c.ticketService.GetHistory(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.JSON(http.StatusOK, resp)
}
