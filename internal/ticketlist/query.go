package ticketlist

import (
	"net/url"
	"strconv"
)

// BuildQuery собирает параметры запроса списка. page, per_page, order_by и
// order_dir передаются всегда, остальные - только если заполнены: сервер
// может по-разному трактовать пустой и отсутствующий параметр.
func BuildQuery(filters FilterState, page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("order_by", filters.OrderBy)
	q.Set("order_dir", filters.OrderDir)

	optional := []struct {
		key   string
		value string
	}{
		{"search", filters.Search},
		{"status", filters.Status},
		{"priority", filters.Priority},
		{"category", filters.Category},
		{"date_from", filters.DateFrom},
		{"date_to", filters.DateTo},
		{"assigned_to", filters.AssignedTo},
	}
	for _, p := range optional {
		if p.value != "" {
			q.Set(p.key, p.value)
		}
	}
	return q
}
