package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"support-system/internal/authz"
	"support-system/internal/entities"
	"support-system/internal/repositories"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/types"
)

const reportSheet = "Tickets"

var reportHeaders = []interface{}{
	"ID", "Título", "Estado", "Prioridad", "Categoría", "Subcategoría", "Proyecto",
	"Cliente", "Email cliente", "Ingeniero asignado", "Creado", "Actualizado",
	"SLA respuesta", "SLA resolución",
}

type ReportServiceInterface interface {
	// ExportTickets строит XLSX со всеми тикетами под фильтром, без пагинации.
	ExportTickets(ctx context.Context, filter types.TicketFilter) (*bytes.Buffer, error)
}

type reportService struct {
	ticketRepo repositories.TicketRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(ticketRepo repositories.TicketRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &reportService{ticketRepo: ticketRepo, logger: logger.Named("report")}
}

func (s *reportService) ExportTickets(ctx context.Context, filter types.TicketFilter) (*bytes.Buffer, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if !authz.CanDo(authz.TicketsExport, actor) {
		s.logger.Warn("Попытка выгрузки без права tickets:export", zap.String("user_id", actor.UserID))
		return nil, apperrors.ErrForbidden
	}

	filter.Page, filter.PerPage = 1, 0
	tickets, _, err := s.ticketRepo.ListTickets(ctx, filter, authz.ListScope(actor, filter.ViewAll))
	if err != nil {
		return nil, err
	}
	return buildTicketWorkbook(tickets)
}

func ticketRow(t entities.Ticket) []interface{} {
	const dateFmt = "02.01.2006 15:04"
	deadline := func(v null.Time) string {
		if !v.Valid {
			return ""
		}
		return v.Time.Format(dateFmt)
	}
	return []interface{}{
		t.TicketID, t.Title, t.Status, t.Priority, t.Category, t.Subcategory.String, t.ProjectID,
		t.ClientName.String, t.ClientEmail.String, t.EngineerName.String,
		t.CreatedAt.Format(dateFmt), t.UpdatedAt.Format(dateFmt),
		deadline(t.SLAResponseDeadline), deadline(t.SLAResolutionDeadline),
	}
}

func buildTicketWorkbook(tickets []entities.Ticket) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeaders); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(reportHeaders), 1)
	if err := f.SetCellStyle(reportSheet, "A1", lastHeader, style); err != nil {
		return nil, err
	}

	for i, t := range tickets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := ticketRow(t)
		if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("ошибка записи строки %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(reportSheet, "B", "B", 40)
	_ = f.SetColWidth(reportSheet, "H", "J", 25)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ошибка формирования xlsx: %w", err)
	}
	return buf, nil
}
