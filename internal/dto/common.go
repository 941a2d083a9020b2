package dto

// UserRefDTO - краткие данные пользователя внутри тикета.
type UserRefDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}
