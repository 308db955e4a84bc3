package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/pkg/jwt"
)

// Locals keys para los datos del solicitante en Fiber.
const (
	LocalUserID    = "user_id"
	LocalRole      = "role"
	LocalManagerID = "manager_id"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID y Role en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return domain.Errorf(domain.ErrUnauthorized, "Authorization header requerido")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return domain.Errorf(domain.ErrUnauthorized, "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return domain.Errorf(domain.ErrUnauthorized, "token vacío")
		}
		userID, role, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return domain.Errorf(domain.ErrUnauthorized, "token inválido o expirado")
		}
		if role == "" {
			return domain.Errorf(domain.ErrUnauthorized, "el token no incluye el rol")
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Usar después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := entity.Role(GetRole(c))
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return domain.Errorf(domain.ErrForbidden, "el rol %q no tiene acceso a este recurso", role)
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// requester construye el Requester de la petición. El rol del token se
// valida aquí: un rol desconocido es un error de entrada (400).
func requester(c *fiber.Ctx) (access.Requester, error) {
	id := GetUserID(c)
	if id == "" {
		return access.Requester{}, domain.Errorf(domain.ErrUnauthorized, "usuario no autenticado")
	}
	role, ok := entity.ParseRole(GetRole(c))
	if !ok {
		return access.Requester{}, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", GetRole(c))
	}
	r := access.Requester{ID: id, Role: role}
	if m, ok := c.Locals(LocalManagerID).(string); ok && m != "" {
		r.ManagerID = &m
	}
	return r, nil
}
