package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "support-system/pkg/errors"
	"support-system/pkg/types"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

var allowedOrderBy = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"priority":   true,
	"status":     true,
}

// ParseTicketQuery разбирает параметры списка тикетов. Неизвестная
// сортировка заменяется на created_at, направление - на desc. Ошибку
// возвращает только неверная дата.
func ParseTicketQuery(query url.Values, defaultPerPage uint64) (types.TicketFilter, error) {
	if defaultPerPage == 0 {
		defaultPerPage = DefaultPerPage
	}
	filter := types.TicketFilter{
		Search:     strings.TrimSpace(query.Get("search")),
		Status:     query.Get("status"),
		Priority:   query.Get("priority"),
		Category:   query.Get("category"),
		AssignedTo: query.Get("assigned_to"),
		ClientID:   query.Get("client_id"),
		ProjectID:  query.Get("project_id"),
		ViewAll:    query.Get("view") == "all",
		OrderBy:    "created_at",
		OrderDir:   "desc",
		Page:       1,
		PerPage:    defaultPerPage,
	}

	if orderBy := query.Get("order_by"); allowedOrderBy[orderBy] {
		filter.OrderBy = orderBy
	}
	if query.Get("order_dir") == "asc" {
		filter.OrderDir = "asc"
	}

	if p, err := strconv.ParseUint(query.Get("page"), 10, 64); err == nil && p > 0 {
		filter.Page = p
	}
	if pp, err := strconv.ParseUint(query.Get("per_page"), 10, 64); err == nil && pp > 0 {
		if pp > MaxPerPage {
			pp = MaxPerPage
		}
		filter.PerPage = pp
	}

	if raw := query.Get("date_from"); raw != "" {
		from, _, err := ParseISODate(raw)
		if err != nil {
			return filter, apperrors.ErrInvalidDate
		}
		filter.DateFrom = &from
	}
	if raw := query.Get("date_to"); raw != "" {
		to, dateOnly, err := ParseISODate(raw)
		if err != nil {
			return filter, apperrors.ErrInvalidDate
		}
		if dateOnly {
			// дата без времени включает весь день
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.DateTo = &to
	}

	return filter, nil
}

var isoLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// ParseISODate принимает YYYY-MM-DD или дату со временем.
func ParseISODate(raw string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true, nil
	}
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, false, nil
		}
		lastErr = err
	}
	return time.Time{}, false, lastErr
}
