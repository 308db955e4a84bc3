package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
)

// BankAccountHandler cuentas bancarias de los managers.
type BankAccountHandler struct {
	uc *usecase.BankAccountUseCase
}

// NewBankAccountHandler construye el handler.
func NewBankAccountHandler(uc *usecase.BankAccountUseCase) *BankAccountHandler {
	return &BankAccountHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar cuenta bancaria
// @Tags         bank-accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBankAccountRequest  true  "Datos de la cuenta"
// @Success      201   {object}  dto.BankAccountResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/bank-accounts [post]
func (h *BankAccountHandler) Create(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.CreateBankAccountRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), r, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cuentas bancarias visibles
// @Tags         bank-accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BankAccountListResponse
// @Router       /api/bank-accounts [get]
func (h *BankAccountHandler) List(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), r)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByIdentifier godoc
// @Summary      Buscar cuenta por identificador
// @Description  Un admin debe indicar manager_id.
// @Tags         bank-accounts
// @Security     Bearer
// @Produce      json
// @Param        identifier  path   string  true   "Identificador de la cuenta"
// @Param        manager_id  query  string  false  "Manager propietario (solo admin)"
// @Success      200         {object}  dto.BankAccountResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{identifier} [get]
func (h *BankAccountHandler) GetByIdentifier(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByIdentifier(c.UserContext(), r, c.Params("identifier"), c.Query("manager_id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar cuenta bancaria
// @Tags         bank-accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID de la cuenta"
// @Param        body  body  dto.UpdateBankAccountRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.BankAccountResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{id} [put]
func (h *BankAccountHandler) Update(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.UpdateBankAccountRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), r, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar cuenta bancaria
// @Tags         bank-accounts
// @Security     Bearer
// @Param        id  path  string  true  "ID de la cuenta"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/bank-accounts/{id} [delete]
func (h *BankAccountHandler) Delete(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), r, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
