package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/application/usecase"
	"github.com/jhoicas/Booking-api/internal/application/voucher"
)

// OrderHandler pedidos (agentes, managers y admins) y su voucher.
type OrderHandler struct {
	uc       *usecase.OrderUseCase
	vouchers *voucher.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase, vouchers *voucher.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc, vouchers: vouchers}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Solo agentes. totalPrice se calcula si no se envía; los pagos nacen como unpaid.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Datos del pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.CreateOrderRequest
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
// @Summary      Listar pedidos visibles
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"
// @Param        search  query  string  false  "Cliente o número de reserva"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
// @Router       /api/manager/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.OrderListRequest
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
// @Summary      Ver pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
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
// @Summary      Actualizar pedido
// @Description  Actualización parcial. Los agentes no cambian estados y no tocan importes de pagos ya pagados.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.UpdateOrderRequest
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
// @Summary      Borrar pedido
// @Description  Solo pedidos pendientes sin pagos registrados.
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), r, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkDepositPaid godoc
// @Summary      Marcar el depósito como pagado
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true   "ID del pedido"
// @Param        body  body  dto.MarkDepositPaidRequest  false  "Fecha y medios de pago"
// @Success      200   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/deposit-paid [patch]
func (h *OrderHandler) MarkDepositPaid(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.MarkDepositPaidRequest
	if err := bindOptionalBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.MarkDepositPaid(c.UserContext(), r, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Aprobar o rechazar un pedido
// @Tags         manager
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ConfirmOrderRequest  true  "approved | rejected"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/manager/orders/{id}/confirm [patch]
func (h *OrderHandler) Confirm(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.ConfirmOrderRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Confirm(c.UserContext(), r, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ConfirmPayment godoc
// @Summary      Confirmar el pago del depósito o del saldo
// @Tags         manager
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del pedido"
// @Param        body  body  dto.ConfirmPaymentRequest  true  "deposit | balance"
// @Success      200   {object}  dto.OrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/manager/orders/{id}/confirm-payment [patch]
func (h *OrderHandler) ConfirmPayment(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	var in dto.ConfirmPaymentRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ConfirmPayment(c.UserContext(), r, c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Voucher godoc
// @Summary      Descargar el voucher PDF
// @Description  Solo pedidos aprobados con los datos de viaje completos.
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        orderId  path  string  true  "ID del pedido"
// @Success      200      {file}    binary
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      403      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/orders/{orderId}/voucher [get]
func (h *OrderHandler) Voucher(c *fiber.Ctx) error {
	r, err := requester(c)
	if err != nil {
		return err
	}
	file, err := h.vouchers.Download(c.UserContext(), r, c.Params("orderId"))
	if err != nil {
		return err
	}
	c.Attachment(file.Name)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(file.Content)
}
