package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
)

// AgentHandler gestión de agentes (admin y manager).
type AgentHandler struct {
	uc *usecase.AgentUseCase
}

// NewAgentHandler construye el handler.
func NewAgentHandler(uc *usecase.AgentUseCase) *AgentHandler {
	return &AgentHandler{uc: uc}
}

// List godoc
// @Summary      Listar agentes
// @Description  Un manager ve solo sus agentes; un admin ve todos.
// @Tags         agents
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Filtrar por estado"
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200     {object}  dto.UserListResponse
// @Router       /api/agents [get]
func (h *AgentHandler) List(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.AgentListRequest
	if err := bindQuery(c, &in); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), r, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Ver un agente
// @Tags         agents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del agente"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/agents/{id} [get]
func (h *AgentHandler) Get(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), r, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar un agente
// @Tags         agents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del agente"
// @Param        body  body  dto.UpdateAgentRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/agents/{id} [put]
func (h *AgentHandler) Update(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.UpdateAgentRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), r, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ToggleStatus godoc
// @Summary      Bloquear o desbloquear un usuario
// @Description  Un admin nunca puede ser bloqueado.
// @Tags         agents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/agents/{id}/toggle-status [patch]
func (h *AgentHandler) ToggleStatus(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ToggleStatus(c.UserContext(), r, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
