package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors. The workflow taxonomy is deliberately explicit: an
// invalid edge, a role without permission, and an unmet precondition are
// three different failures and callers react to each differently.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "account is inactive")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// ErrTransicionInvalida: the requested edge is not in the transition
	// table. Always a caller bug or stale UI state; safe to surface verbatim.
	ErrTransicionInvalida = New("TRANSICION_INVALIDA", http.StatusUnprocessableEntity, "la transición solicitada no está permitida")

	// ErrForbidden: the edge exists but the actor's role is not authorized.
	// The message never explains which roles would be allowed.
	ErrForbidden = New("FORBIDDEN", http.StatusForbidden, "no autorizado")

	// ErrPreconditionFailed: edge and role are valid but a domain
	// prerequisite is unmet. Clone it with a reason safe to show the actor.
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "requisito procesal no cumplido")

	// Catalog and lifecycle defects. These indicate a bug in the caller and
	// are logged loudly at the service layer.
	ErrTipoPlazoDesconocido = New("TIPO_PLAZO_DESCONOCIDO", http.StatusBadRequest, "tipo de plazo no registrado en el catálogo")
	ErrEstadoPlazoInvalido  = New("ESTADO_PLAZO_INVALIDO", http.StatusConflict, "el plazo no se encuentra activo")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
