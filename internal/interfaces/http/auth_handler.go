package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
)

// AuthHandler login, registro por invitación y alta del primer admin.
type AuthHandler struct {
	uc          *auth.AuthUseCase
	invitations *usecase.InvitationUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, invitations *usecase.InvitationUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, invitations: invitations}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrarse con una invitación
// @Description  El email y el rol salen de la invitación. Un agente invitado por un manager queda asignado a él.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        token  path  string               true  "Token de invitación"
// @Param        body   body  dto.RegisterRequest  true  "Datos del nuevo usuario"
// @Success      201    {object}  dto.AuthResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Failure      409    {object}  dto.ErrorResponse
// @Router       /api/auth/register/{token} [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.invitations.Redeem(c.UserContext(), c.Params("token"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VerifyInvitation godoc
// @Summary      Consultar una invitación vigente
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "Token de invitación"
// @Success      200    {object}  dto.InvitationCheckResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/auth/invitations/{token} [get]
func (h *AuthHandler) VerifyInvitation(c *fiber.Ctx) error {
	out, err := h.invitations.Verify(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RegisterFirstAdmin godoc
// @Summary      Crear el administrador inicial
// @Description  Solo funciona mientras no exista ningún admin.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterFirstAdminRequest  true  "Datos del admin"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/admin/register-first-admin [post]
func (h *AuthHandler) RegisterFirstAdmin(c *fiber.Ctx) error {
	var in dto.RegisterFirstAdminRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterFirstAdmin(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
