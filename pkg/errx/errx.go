package errx

import (
	"fmt"
	"net/http"
)

// Type clasifica un error según su naturaleza
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeBusiness      Type = "BUSINESS"
	TypeExternal      Type = "EXTERNAL"
	TypeInternal      Type = "INTERNAL"
)

// Error es el error estándar de la aplicación: código estable, tipo,
// status HTTP y detalles opcionales para contexto
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"status"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

// Error implementa la interface error
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap expone el error subyacente para errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail agrega contexto al error; retorna el mismo error para encadenar
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithMessage reemplaza el mensaje por defecto del código
func (e *Error) WithMessage(message string) *Error {
	e.Message = message
	return e
}

// IsType verifica si el error es de un tipo específico
func IsType(err error, t Type) bool {
	if e, ok := err.(*Error); ok {
		return e.Type == t
	}
	return false
}

// New crea un error sin código registrado
func New(message string, t Type) *Error {
	return &Error{
		Code:       string(t),
		Type:       t,
		HTTPStatus: statusFor(t),
		Message:    message,
	}
}

// Wrap envuelve un error de infraestructura con tipo y mensaje propios
func Wrap(err error, message string, t Type) *Error {
	if e, ok := err.(*Error); ok {
		// Ya es un errx.Error: se preserva el código original
		return e
	}
	return &Error{
		Code:       string(t),
		Type:       t,
		HTTPStatus: statusFor(t),
		Message:    message,
		Err:        err,
	}
}

func statusFor(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
