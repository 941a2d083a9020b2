package ticketlist

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
	RoleClient   Role = "client"
)

// Session передается контроллеру явно: решения о доступе зависят только от
// входных данных, а не от глобального хранилища.
type Session struct {
	UserID   string
	FullName string
	Role     Role
}

// RowActions - действия, доступные над строкой списка.
type RowActions struct {
	OpenDetail   bool `json:"open_detail"`
	GenerateQR   bool `json:"generate_qr"`
	Edit         bool `json:"edit"`
	Delete       bool `json:"delete"`
	Assign       bool `json:"assign"`
	ChangeStatus bool `json:"change_status"`
}

// Any сообщает, нужна ли колонка действий вообще.
func (a RowActions) Any() bool {
	return a.GenerateQR || a.Edit || a.Delete || a.Assign || a.ChangeStatus
}

func ActionsFor(role Role) RowActions {
	actions := RowActions{OpenDetail: true}
	switch role {
	case RoleAdmin:
		actions.GenerateQR = true
		actions.Edit = true
		actions.Delete = true
		actions.Assign = true
		actions.ChangeStatus = true
	case RoleEngineer:
		actions.GenerateQR = true
		actions.Assign = true
		actions.ChangeStatus = true
	}
	return actions
}

// ShowClientColumn - колонка клиента видна только администратору.
func ShowClientColumn(role Role) bool {
	return role == RoleAdmin
}
