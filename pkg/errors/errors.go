package errors

import "fmt"

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("Método de firma de token no válido")
	ErrInvalidToken         = fmt.Errorf("Token inválido")
	ErrTokenExpired         = fmt.Errorf("El token ha expirado")
	ErrTokenNotYetValid     = fmt.Errorf("El token aún no es válido")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("Falta el encabezado de autorización")
	ErrInvalidAuthHeader = fmt.Errorf("Formato de encabezado de autorización no válido")
	ErrUnauthorized      = fmt.Errorf("No autorizado")
	ErrForbidden         = fmt.Errorf("No tienes permiso para realizar esta acción")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound       = fmt.Errorf("Registro no encontrado")
	ErrTicketNotFound = fmt.Errorf("Ticket no encontrado")
	ErrBadRequest     = fmt.Errorf("Solicitud incorrecta")
	ErrInvalidDate    = fmt.Errorf("Formato de fecha no válido, use AAAA-MM-DD")
	ErrNothingToPatch = fmt.Errorf("No hay cambios para aplicar")
)

// HttpError - ошибка с HTTP-кодом и сообщением для пользователя. Err и
// Context попадают только в лог.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}
