package errx

import "fmt"

// ErrorCode identifica un error registrado dentro de un módulo
type ErrorCode string

type registration struct {
	code       string
	errType    Type
	httpStatus int
	message    string
}

// Registry agrupa los códigos de error de un módulo bajo un prefijo común
// (ej: "PROPOSAL", "AVAILABILITY")
type Registry struct {
	prefix  string
	entries map[ErrorCode]registration
}

// NewRegistry crea un registro de errores para un módulo
func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix:  prefix,
		entries: make(map[ErrorCode]registration),
	}
}

// Register registra un código de error con su tipo, status HTTP y mensaje
// por defecto. Retorna el ErrorCode para usar con New
func (r *Registry) Register(code string, t Type, httpStatus int, message string) ErrorCode {
	full := ErrorCode(r.prefix + "_" + code)
	r.entries[full] = registration{
		code:       string(full),
		errType:    t,
		httpStatus: httpStatus,
		message:    message,
	}
	return full
}

// New crea una nueva instancia del error registrado
func (r *Registry) New(code ErrorCode) *Error {
	reg, ok := r.entries[code]
	if !ok {
		// Código no registrado: error de programación, no de runtime
		return &Error{
			Code:       string(code),
			Type:       TypeInternal,
			HTTPStatus: 500,
			Message:    fmt.Sprintf("unregistered error code %q", code),
		}
	}
	return &Error{
		Code:       reg.code,
		Type:       reg.errType,
		HTTPStatus: reg.httpStatus,
		Message:    reg.message,
	}
}
