package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketFilter_Offset(t *testing.T) {
	tests := []struct {
		name      string
		page      uint64
		perPage   uint64
		offset    uint64
		overflows bool
	}{
		{name: "первая страница", page: 1, perPage: 20, offset: 0},
		{name: "нулевая страница", page: 0, perPage: 20, offset: 0},
		{name: "третья страница", page: 3, perPage: 10, offset: 20},
		{name: "без пагинации", page: 5, perPage: 0, offset: 0},
		{name: "последнее допустимое смещение", page: math.MaxInt64/20 + 1, perPage: 20, offset: math.MaxInt64 / 20 * 20},
		{name: "огромная страница", page: 1_000_000_000_000_000_000, perPage: 20, offset: math.MaxInt64, overflows: true},
		{name: "максимальный uint64", page: math.MaxUint64, perPage: 100, offset: math.MaxInt64, overflows: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := TicketFilter{Page: tt.page, PerPage: tt.perPage}
			assert.Equal(t, tt.overflows, f.OffsetOverflows())
			assert.Equal(t, tt.offset, f.Offset())
		})
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 2, PerPage: 20, Total: 41, Pages: 3}, NewPagination(2, 20, 41))
	assert.Equal(t, uint64(0), NewPagination(1, 20, 0).Pages)
	assert.Equal(t, uint64(0), NewPagination(1, 0, 7).Pages, "без пагинации страниц нет")
}
