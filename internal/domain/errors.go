package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrMaterialNotFound  = errors.New("material no encontrado")
	ErrMovementNotFound  = errors.New("movimiento no encontrado")
	ErrUserNotFound      = errors.New("usuario no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// ValidationError agrupa errores de validación por campo para la respuesta HTTP.
// Envuelve ErrInvalidInput, así errors.Is(err, ErrInvalidInput) sigue funcionando.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError con un solo campo.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %d campo(s) inválido(s)", len(e.Fields))
}

// Unwrap permite tratar cualquier ValidationError como ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add agrega un error de campo y devuelve el mismo ValidationError (encadenable).
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = message
	return e
}
