package entities

// PrioritySetting - элемент настройки ticket_priorities.
type PrioritySetting struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	SLAHours int    `json:"sla_hours"`
}
