package ticketlist

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrModalActive = errors.New("ticketlist: уже открыто другое модальное окно")
	ErrNoModal     = errors.New("ticketlist: нужное модальное окно не открыто")
)

type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalEdit
	ModalDelete
	ModalQR
)

func (k ModalKind) String() string {
	switch k {
	case ModalEdit:
		return "edit"
	case ModalDelete:
		return "delete"
	case ModalQR:
		return "qr"
	default:
		return "none"
	}
}

// Modal - размеченное объединение: одновременно активно не больше одного
// окна. Ticket заполнен для Edit/Delete, ProjectID - для QR.
type Modal struct {
	Kind      ModalKind
	Ticket    *Ticket
	ProjectID string
}

func (m Modal) Open() bool { return m.Kind != ModalNone }

// EditForm - состояние формы редактирования. Description при открытии
// остается пустым и на сервер не отправляется.
type EditForm struct {
	Title       string `validate:"required"`
	Description string
	Priority    string
	Category    string
}

type EditField string

const (
	EditTitle       EditField = "title"
	EditDescription EditField = "description"
	EditPriority    EditField = "priority"
	EditCategory    EditField = "category"
)

// QRTargetURL - адрес истории проекта, который кодируется в QR.
func QRTargetURL(frontendURL, projectID string) string {
	return strings.TrimRight(frontendURL, "/") + "/project/" + url.PathEscape(projectID) + "/history"
}
