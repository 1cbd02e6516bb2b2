package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrValidation             = errors.New("validación fallida")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrNoAccount              = errors.New("no existe cuenta para esta identidad")
	ErrResolution             = errors.New("no se pudo resolver la identidad")
	ErrStoreUnavailable       = errors.New("almacenamiento no disponible")
	ErrStoreTimeout           = errors.New("tiempo de espera agotado en el almacenamiento")
)

// ValidationError detalla los campos inválidos de una entrada. errors.Is(err, ErrValidation) es true.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye el error a partir de pares campo → mensaje.
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsRetryable indica si el error proviene de la infraestructura y el cliente puede reintentar.
// Validación y transiciones inválidas nunca son reintentables.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, ErrStoreTimeout) ||
		errors.Is(err, ErrResolution)
}
