package types

import (
	"math"
	"time"
)

// TicketFilter - разобранные параметры GET /api/tickets.
type TicketFilter struct {
	Search     string
	Status     string
	Priority   string
	Category   string
	AssignedTo string
	ClientID   string
	ProjectID  string
	// ViewAll снимает ограничение инженера "мои или неназначенные".
	ViewAll  bool
	DateFrom *time.Time
	DateTo   *time.Time
	OrderBy  string
	OrderDir string
	Page     uint64
	PerPage  uint64
}

// OffsetOverflows - смещение страницы не помещается в BIGINT Postgres.
// Такая страница заведомо пуста.
func (f TicketFilter) OffsetOverflows() bool {
	return f.PerPage > 0 && f.Page > 1 && f.Page-1 > math.MaxInt64/f.PerPage
}

// Offset не переполняется: при OffsetOverflows возвращает math.MaxInt64.
func (f TicketFilter) Offset() uint64 {
	if f.Page <= 1 || f.PerPage == 0 {
		return 0
	}
	if f.OffsetOverflows() {
		return math.MaxInt64
	}
	return (f.Page - 1) * f.PerPage
}

// Pagination - блок pagination ответа списка.
type Pagination struct {
	Page    uint64 `json:"page"`
	PerPage uint64 `json:"per_page"`
	Total   uint64 `json:"total"`
	Pages   uint64 `json:"pages"`
}

func NewPagination(page, perPage, total uint64) Pagination {
	pages := uint64(0)
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return Pagination{Page: page, PerPage: perPage, Total: total, Pages: pages}
}
