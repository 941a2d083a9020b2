package authz

import (
	"strings"

	"support-system/internal/entities"
	"support-system/pkg/constants"
)

type Context struct {
	UserID      string
	Role        string
	Permissions map[string]bool
	Target      *entities.Ticket
}

func NewContext(userID, role string) Context {
	return Context{UserID: userID, Role: role, Permissions: PermissionsFor(role)}
}

func (c Context) WithTarget(t *entities.Ticket) Context {
	c.Target = t
	return c
}

func (c Context) HasPermission(permission string) bool {
	return c.Permissions[permission]
}

func getAction(permission string) string {
	parts := strings.Split(permission, ":")
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

// CanDo - есть ли у пользователя право и, если задан Target, доступ к этому тикету.
func CanDo(permission string, ctx Context) bool {
	if !ctx.HasPermission(permission) {
		return false
	}
	if ctx.Target == nil {
		return true
	}
	return canAccessTicket(ctx, ctx.Target, getAction(permission))
}

func canAccessTicket(ctx Context, target *entities.Ticket, action string) bool {
	if ctx.HasPermission(ScopeAll) {
		return true
	}
	if ctx.HasPermission(ScopeOwn) {
		return target.ClientID == ctx.UserID
	}
	if ctx.HasPermission(ScopeAssigned) {
		// просматривать инженер может любой тикет, менять - только свои и ничьи
		if action == "view" {
			return true
		}
		return !target.AssignedTo.Valid || target.AssignedTo.String == ctx.UserID
	}
	return false
}

// CanSetStatus - может ли роль выставить этот статус. Клиенту доступны
// только constants.ClientStatuses.
func CanSetStatus(ctx Context, status string) bool {
	if !ctx.HasPermission(TicketsStatus) {
		return false
	}
	if ctx.HasPermission(TicketsStatusAny) {
		return true
	}
	for _, s := range constants.ClientStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ListScope - ограничение списка тикетов для роли. viewAll снимает
// ограничение инженера.
func ListScope(ctx Context, viewAll bool) entities.TicketScope {
	switch {
	case ctx.HasPermission(ScopeAll):
		return entities.TicketScope{}
	case ctx.HasPermission(ScopeOwn):
		return entities.TicketScope{ClientID: ctx.UserID}
	case ctx.HasPermission(ScopeAssigned) && !viewAll:
		return entities.TicketScope{EngineerID: ctx.UserID}
	}
	return entities.TicketScope{}
}
