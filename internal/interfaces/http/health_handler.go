package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/application/dto"
)

// Pinger comprueba la conexión a la base de datos (lo implementa *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio y de la base de datos.
type HealthHandler struct {
	db  Pinger
	env string
}

// NewHealthHandler construye el handler. db puede ser nil (sin base de datos).
func NewHealthHandler(db Pinger, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env}
}

// Check godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	out := dto.HealthResponse{Status: "ok", Database: "connected", Environment: h.env}
	if h.db == nil || h.ping(c.UserContext()) != nil {
		out.Status = "degraded"
		out.Database = "disconnected"
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}

func (h *HealthHandler) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.Ping(ctx)
}
