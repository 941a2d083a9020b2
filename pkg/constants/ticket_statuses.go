package constants

// --- СТАТУСЫ ТИКЕТОВ (совпадают со значениями в БД) ---
const (
	StatusNew        = "new"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusWaiting    = "waiting"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// TicketStatuses - все допустимые статусы.
var TicketStatuses = []string{
	StatusNew,
	StatusAssigned,
	StatusInProgress,
	StatusWaiting,
	StatusResolved,
	StatusClosed,
}

// ClientStatuses - статусы, которые клиент может выставить сам.
var ClientStatuses = []string{
	StatusWaiting,
	StatusClosed,
}

func IsTicketStatus(code string) bool {
	for _, s := range TicketStatuses {
		if s == code {
			return true
		}
	}
	return false
}

// --- ПРИОРИТЕТЫ ---
const (
	PriorityLow      = "low"
	PriorityMedium   = "medium"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Финальные статусы
var FinalStatuses = []string{
	StatusResolved,
	StatusClosed,
}

func IsFinalStatus(code string) bool {
	for _, s := range FinalStatuses {
		if s == code {
			return true
		}
	}
	return false
}
