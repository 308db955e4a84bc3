package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

// userLookup es el contrato mínimo que necesita RequireActiveUser.
// Lo implementa repository.UserRepository.
type userLookup interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}

// RequireActiveUser comprueba que el usuario del token sigue existiendo y activo.
// Debe usarse DESPUÉS de AuthMiddleware. Además deja el manager del usuario en
// LocalManagerID, que necesitan las reglas de alcance de los agentes.
//
// Comportamiento:
//   - 401 → usuario inexistente o desactivado.
//   - 503 → fallo de infraestructura al consultar la DB.
func RequireActiveUser(users userLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetUserID(c)
		if id == "" {
			return domain.Errorf(domain.ErrUnauthorized, "usuario no autenticado")
		}
		user, err := users.GetByID(c.UserContext(), id)
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "no se pudo verificar el usuario, intente más tarde")
		}
		if user == nil || !user.IsActive {
			return domain.Errorf(domain.ErrUnauthorized, "la cuenta no existe o está desactivada")
		}
		// El rol persistido manda sobre el del token.
		c.Locals(LocalRole, user.Role.String())
		if user.HasManager() {
			c.Locals(LocalManagerID, *user.ManagerID)
		}
		return c.Next()
	}
}

// RequestLogger una línea por petición con método, ruta, status, latencia y request id.
// Resuelve el error de la cadena con el ErrorHandler de la app para registrar el status real.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user_id", GetUserID(c)).
			Msg("petición HTTP")
		return nil
	}
}
