package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

// errorKinds tabla error de dominio → status y código. El orden importa:
// se devuelve la primera coincidencia de errors.Is.
var errorKinds = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrValidation, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrInvalidRole, fiber.StatusBadRequest, "INVALID_ROLE"},
	{domain.ErrInvalidInvitation, fiber.StatusBadRequest, "INVALID_INVITATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "USER_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrRendering, fiber.StatusInternalServerError, "RENDERING_FAILED"},
}

// ErrorHandler handler global de Fiber: traduce cualquier error devuelto por
// handlers o middlewares al sobre {"error": {...}}. Fuera de producción añade
// la cadena de errores en "stack"; los 5xx se registran en el log.
func ErrorHandler(log *logger.Logger, production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body := toErrorBody(err, production)
		if !production {
			body.Stack = errorChain(err)
		}
		if body.Status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
				Int("status", body.Status).
				Msg("error interno")
		}
		return c.Status(body.Status).JSON(dto.ErrorResponse{Error: body})
	}
}

func toErrorBody(err error, production bool) dto.ErrorBody {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return dto.ErrorBody{Status: fe.Code, Code: statusCode(fe.Code), Message: fe.Message}
	}

	body := dto.ErrorBody{
		Status:  fiber.StatusInternalServerError,
		Code:    "INTERNAL",
		Message: "error interno del servidor",
	}
	known := false
	for _, k := range errorKinds {
		if errors.Is(err, k.kind) {
			body.Status, body.Code = k.status, k.code
			known = true
			break
		}
	}
	var de *domain.Error
	if errors.As(err, &de) {
		body.Details = de.Details
	}
	if known || !production {
		body.Message = err.Error()
	}
	return body
}

// statusCode "Not Found" → "NOT_FOUND".
func statusCode(status int) string {
	msg := utils.StatusMessage(status)
	if msg == "" {
		return "ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(msg, " ", "_"))
}

func errorChain(err error) string {
	var parts []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		parts = append(parts, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(parts, "\n")
}
