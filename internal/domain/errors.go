package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrValidation         = errors.New("error de validación")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidRole        = errors.New("rol inválido")
	ErrInvalidInvitation  = errors.New("invitación inválida o expirada")
	ErrRendering          = errors.New("error generando el documento")
)

// FieldError detalle de validación de un campo concreto.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error envuelve un error de dominio (Kind) con un mensaje legible y detalles opcionales.
// errors.Is(err, domain.ErrForbidden) sigue funcionando gracias a Unwrap.
type Error struct {
	Kind    error
	Message string
	Details []FieldError
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Errorf construye un *Error del tipo indicado con mensaje formateado.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError construye un error de validación con detalles por campo.
func ValidationError(message string, details ...FieldError) error {
	return &Error{Kind: ErrValidation, Message: message, Details: details}
}
