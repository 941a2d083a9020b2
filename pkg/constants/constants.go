// pkg/constants/constants.go
package constants

//============== ROLES ==============

const (
	RoleAdmin    = "admin"
	RoleEngineer = "engineer"
	RoleClient   = "client"
)

//============== CACHE KEYS ==============

// Префиксы для ключей в Redis.
const (
	// Формат: settings:<key> -> JSON значения настройки
	CacheKeySetting = "settings:%s"
)

//============== SETTINGS KEYS ==============

const (
	SettingCategories = "ticket_categories"
	SettingPriorities = "ticket_priorities"
)

//============== HISTORY ACTIONS ==============

const (
	HistoryFieldUpdated    = "field_updated"
	HistoryPriorityChanged = "priority_changed"
	HistoryCategoryChanged = "category_changed"
	HistoryTicketAssigned  = "ticket_assigned"
	HistoryStatusChanged   = "status_changed"
)
