package db

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ApplyOrderAndPage добавляет сортировку по белому списку и LIMIT/OFFSET.
// Значение allowedMap - SQL-выражение столбца. Неизвестное поле заменяется
// на fallback. tieBreaker делает порядок стабильным между страницами.
func ApplyOrderAndPage(builder sq.SelectBuilder, orderBy, orderDir, fallback, tieBreaker string, limit, offset uint64, allowedMap map[string]string) sq.SelectBuilder {
	dbCol, ok := allowedMap[orderBy]
	if !ok {
		dbCol = allowedMap[fallback]
	}

	sqlDir := "DESC"
	if strings.ToLower(orderDir) == "asc" {
		sqlDir = "ASC"
	}
	if dbCol != "" {
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
	}
	if tieBreaker != "" {
		builder = builder.OrderBy(fmt.Sprintf("%s %s", tieBreaker, sqlDir))
	}

	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}
	return builder
}
