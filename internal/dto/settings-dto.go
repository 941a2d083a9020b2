package dto

type PriorityDTO struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	SLAHours int    `json:"sla_hours"`
}
