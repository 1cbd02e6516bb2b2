package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Portal-api/internal/application/dto"
	"github.com/jhoicas/Portal-api/internal/domain"
)

// retryAfterSeconds valor de Retry-After para fallos transitorios del almacenamiento.
const retryAfterSeconds = 5

// errorStatus traduce un error de dominio a (status HTTP, código, mensaje).
func errorStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION", "datos inválidos"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", "no autenticado"
	case errors.Is(err, domain.ErrNoAccount):
		return fiber.StatusForbidden, "NO_ACCOUNT", "no existe cuenta para esta identidad; solicite acceso"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN", "acceso denegado"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return fiber.StatusConflict, "INVALID_STATE_TRANSITION", "el registro ya no está en un estado que permita la operación; actualice la vista"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS", "el email ya está registrado"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT", "conflicto con el estado actual"
	// la resolución envuelve el error del almacenamiento y prevalece sobre él
	case errors.Is(err, domain.ErrResolution):
		return fiber.StatusServiceUnavailable, "RESOLUTION_FAILED", "no se pudo resolver la identidad, intente más tarde"
	case errors.Is(err, domain.ErrStoreTimeout):
		return fiber.StatusGatewayTimeout, "STORE_TIMEOUT", "el almacenamiento no respondió a tiempo, intente más tarde"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", "almacenamiento no disponible, intente más tarde"
	default:
		return fiber.StatusInternalServerError, "INTERNAL", "error interno"
	}
}

// writeError responde con dto.ErrorResponse. Los mensajes de errores internos no se exponen.
func writeError(c *fiber.Ctx, err error) error {
	status, code, msg := errorStatus(err)
	resp := dto.ErrorResponse{Code: code, Message: msg, Retryable: domain.IsRetryable(err)}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	} else if status < fiber.StatusInternalServerError && status != fiber.StatusNotFound {
		resp.Message = err.Error()
	}
	if resp.Retryable {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds))
	}
	return c.Status(status).JSON(resp)
}

// badBody respuesta para cuerpos que no se pueden decodificar.
func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// badQuery respuesta para parámetros de consulta inválidos.
func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}
