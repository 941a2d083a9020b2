package services

import (
	"time"

	"support-system/pkg/constants"
)

type slaRule struct {
	Response   time.Duration
	Resolution time.Duration
}

var defaultSLA = map[string]slaRule{
	constants.PriorityCritical: {Response: time.Hour, Resolution: 4 * time.Hour},
	constants.PriorityHigh:     {Response: 4 * time.Hour, Resolution: 24 * time.Hour},
	constants.PriorityMedium:   {Response: 8 * time.Hour, Resolution: 72 * time.Hour},
	constants.PriorityLow:      {Response: 24 * time.Hour, Resolution: 168 * time.Hour},
}

// CalculateDeadlines считает дедлайны SLA от момента создания тикета.
// resolutionHours > 0 заменяет время решения из таблицы по умолчанию.
// Неизвестный приоритет считается как medium.
func CalculateDeadlines(createdAt time.Time, priority string, resolutionHours int) (response, resolution time.Time) {
	rule, ok := defaultSLA[priority]
	if !ok {
		rule = defaultSLA[constants.PriorityMedium]
	}
	if resolutionHours > 0 {
		rule.Resolution = time.Duration(resolutionHours) * time.Hour
	}
	return createdAt.Add(rule.Response), createdAt.Add(rule.Resolution)
}
