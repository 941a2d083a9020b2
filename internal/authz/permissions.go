// internal/authz/permissions.go
package authz

import "support-system/pkg/constants"

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Тикеты
	TicketsView   = "tickets:view"
	TicketsUpdate = "tickets:update"
	TicketsDelete = "tickets:delete"
	TicketsExport = "tickets:export"
	TicketsAssign = "tickets:assign"
	TicketsStatus = "tickets:status"
	// без него статус можно сменить только на constants.ClientStatuses
	TicketsStatusAny = "tickets:status:any"

	// Поля тикета, которые роль может менять через PATCH
	FieldTitle       = "tickets:field:title"
	FieldDescription = "tickets:field:description"
	FieldPriority    = "tickets:field:priority"
	FieldCategory    = "tickets:field:category"

	// Настройки
	SettingsView = "settings:view"

	// Модификаторы Области (Scopes)
	ScopeOwn      = "scope:own"      // только свои тикеты (клиент)
	ScopeAssigned = "scope:assigned" // назначенные себе и неназначенные
	ScopeAll      = "scope:all"
)

var rolePermissions = map[string][]string{
	constants.RoleAdmin: {
		TicketsView, TicketsUpdate, TicketsDelete, TicketsExport,
		TicketsAssign, TicketsStatus, TicketsStatusAny,
		FieldTitle, FieldDescription, FieldPriority, FieldCategory,
		SettingsView, ScopeAll,
	},
	constants.RoleEngineer: {
		TicketsView, TicketsUpdate, TicketsExport,
		TicketsAssign, TicketsStatus, TicketsStatusAny,
		FieldPriority, FieldCategory,
		SettingsView, ScopeAssigned,
	},
	constants.RoleClient: {
		TicketsView, TicketsUpdate, TicketsStatus,
		FieldTitle, FieldDescription,
		SettingsView, ScopeOwn,
	},
}

// PermissionsFor возвращает набор прав роли. Неизвестная роль не получает ничего.
func PermissionsFor(role string) map[string]bool {
	perms := make(map[string]bool, len(rolePermissions[role]))
	for _, p := range rolePermissions[role] {
		perms[p] = true
	}
	return perms
}
