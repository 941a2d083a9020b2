package routes

import (
	"github.com/labstack/echo/v4"

	"support-system/internal/controllers"
	"support-system/pkg/constants"
	"support-system/pkg/middleware"
)

func runTicketRouter(
	secureGroup *echo.Group,
	ticketCtrl *controllers.TicketController,
	reportCtrl *controllers.ReportController,
	authMW *middleware.AuthMiddleware,
) {
	tickets := secureGroup.Group("/tickets")

	tickets.GET("", ticketCtrl.GetTickets)
	// выгрузка регистрируется до /:id
	tickets.GET("/export", reportCtrl.ExportTickets, authMW.RequireRoles(constants.RoleAdmin, constants.RoleEngineer))
	tickets.GET("/:id", ticketCtrl.FindTicket)
	tickets.GET("/:id/history", ticketCtrl.GetHistory)
	tickets.PATCH("/:id", ticketCtrl.UpdateTicket)
	tickets.POST("/:id/assign", ticketCtrl.AssignTicket, authMW.RequireRoles(constants.RoleAdmin, constants.RoleEngineer))
	tickets.POST("/:id/status", ticketCtrl.ChangeStatus)
	tickets.DELETE("/:id", ticketCtrl.DeleteTicket, authMW.RequireRoles(constants.RoleAdmin))
}
