package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"support-system/internal/entities"
	"support-system/pkg/constants"
	apperrors "support-system/pkg/errors"
	"support-system/pkg/types"
)

func TestExportTickets_Workbook(t *testing.T) {
	repo := newFakeTicketRepo(sampleTicket("GH-0001", "client-1", "eng-1"))
	s := NewReportService(repo, zap.NewNop())

	buf, err := s.ExportTickets(ctxAs("eng-1", constants.RoleEngineer), types.TicketFilter{Status: "new", Page: 3, PerPage: 20})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), repo.lastFilter.PerPage, "Выгрузка идет без пагинации")
	assert.Equal(t, "new", repo.lastFilter.Status)
	assert.Equal(t, entities.TicketScope{EngineerID: "eng-1"}, repo.lastScope)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "GH-0001", rows[1][0])
	assert.Equal(t, "Ana Pérez", rows[1][7])
	assert.Equal(t, "Luis Gómez", rows[1][9])
	assert.Equal(t, "10.03.2024 09:00", rows[1][10])
}

func TestExportTickets_ClientForbidden(t *testing.T) {
	s := NewReportService(newFakeTicketRepo(), zap.NewNop())
	_, err := s.ExportTickets(ctxAs("client-1", constants.RoleClient), types.TicketFilter{Page: 1, PerPage: 20})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
