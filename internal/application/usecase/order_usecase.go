package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/orderpolicy"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

// OrderUseCase ciclo de vida de pedidos: alta por agentes, edición con reglas por rol,
// aprobación y confirmación de pagos por supervisores.
type OrderUseCase struct {
	orders     repository.OrderRepository
	users      repository.UserRepository
	tx         repository.TxRunner
	authorizer *orderpolicy.Authorizer
	log        *logger.Logger
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.OrderRepository,
	users repository.UserRepository,
	tx repository.TxRunner,
	authorizer *orderpolicy.Authorizer,
	log *logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, users: users, tx: tx, authorizer: authorizer, log: log, now: time.Now}
}

// Create registra un pedido del agente autenticado.
func (uc *OrderUseCase) Create(ctx context.Context, r access.Requester, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if r.Role != entity.RoleAgent {
		return nil, domain.Errorf(domain.ErrForbidden, "solo los agentes pueden crear pedidos")
	}
	if err := nonNegative(
		amount{"officialPrice", &in.OfficialPrice},
		amount{"taxClean", &in.TaxClean},
		amount{"discount", &in.Discount},
		amount{"totalPrice", &in.TotalPrice},
		amount{"deposit.amount", &in.Deposit.Amount},
		amount{"balance.amount", &in.Balance.Amount},
	); err != nil {
		return nil, err
	}

	order := entity.NewOrder(r.ID, entity.NewOrderParams{
		Details:       tripDetails(in.TripDetailsRequest),
		OfficialPrice: in.OfficialPrice,
		TaxClean:      in.TaxClean,
		Discount:      in.Discount,
		TotalPrice:    in.TotalPrice,
		Deposit:       paymentInput(in.Deposit),
		Balance:       paymentInput(in.Balance),
	}, uc.now())
	if err := uc.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("agent_id", r.ID).Msg("pedido creado")
	return ToOrderResponse(order), nil
}

// List pedidos visibles para el solicitante con filtros de estado y búsqueda.
func (uc *OrderUseCase) List(ctx context.Context, r access.Requester, in dto.OrderListRequest) (*dto.OrderListResponse, error) {
	scope, err := access.OrderScope(r)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, total, err := uc.orders.List(ctx, repository.OrderListFilter{
		Scope:  scope,
		Status: entity.OrderStatus(in.Status),
		Search: in.Search,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Get un pedido dentro del alcance del solicitante.
func (uc *OrderUseCase) Get(ctx context.Context, r access.Requester, id string) (*dto.OrderResponse, error) {
	order, err := LoadOrderInScope(ctx, uc.orders, uc.users, r, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order), nil
}

// Update aplica una actualización parcial con las reglas de orderpolicy.
func (uc *OrderUseCase) Update(ctx context.Context, r access.Requester, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	patch, err := toPatch(in)
	if err != nil {
		return nil, err
	}
	return uc.apply(ctx, r, id, patch)
}

// Delete borra un pedido mientras siga pendiente y sin pagos.
func (uc *OrderUseCase) Delete(ctx context.Context, r access.Requester, id string) error {
	if !r.Role.Valid() {
		return domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
	}
	return uc.tx.Run(ctx, func(tx repository.Repositories) error {
		order, err := tx.Orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.Errorf(domain.ErrNotFound, "pedido no encontrado")
		}
		if err := checkOrderScope(ctx, tx.Users, r, order); err != nil {
			return err
		}
		if !order.Deletable() {
			return domain.Errorf(domain.ErrConflict, "solo se pueden borrar pedidos pendientes sin pagos registrados")
		}
		if err := tx.Orders.Delete(ctx, id); err != nil {
			return err
		}
		uc.log.Info().Str("order_id", id).Str("requester_id", r.ID).Msg("pedido eliminado")
		return nil
	})
}

// Confirm aprueba o rechaza un pedido (manager del agente o admin).
func (uc *OrderUseCase) Confirm(ctx context.Context, r access.Requester, id string, in dto.ConfirmOrderRequest) (*dto.OrderResponse, error) {
	if !r.Role.IsSupervisor() {
		return nil, domain.Errorf(domain.ErrForbidden, "solo un manager o un admin puede confirmar pedidos")
	}
	status := entity.OrderStatus(in.StatusOrder)
	if status != entity.OrderApproved && status != entity.OrderRejected {
		return nil, domain.ValidationError("estado de pedido inválido",
			domain.FieldError{Field: "statusOrder", Message: "debe ser approved o rejected"})
	}
	return uc.apply(ctx, r, id, orderpolicy.Patch{StatusOrder: &status})
}

// ConfirmPayment marca como pagado el depósito o el saldo (manager del agente o admin).
func (uc *OrderUseCase) ConfirmPayment(ctx context.Context, r access.Requester, id string, in dto.ConfirmPaymentRequest) (*dto.OrderResponse, error) {
	if !r.Role.IsSupervisor() {
		return nil, domain.Errorf(domain.ErrForbidden, "solo un manager o un admin puede confirmar pagos")
	}
	kind := entity.PaymentKind(in.Payment)
	if !kind.Valid() {
		return nil, domain.ValidationError("pago inválido",
			domain.FieldError{Field: "payment", Message: "debe ser deposit o balance"})
	}
	pp := paidPatch(in.PaidDate, in.PaymentMethods)
	patch := orderpolicy.Patch{}
	if kind == entity.PaymentDeposit {
		patch.Deposit = pp
	} else {
		patch.Balance = pp
	}
	return uc.apply(ctx, r, id, patch)
}

// MarkDepositPaid atajo para marcar el depósito como pagado. Pasa por las mismas reglas
// que Update, así que un agente recibe la respuesta de la política de estados configurada.
func (uc *OrderUseCase) MarkDepositPaid(ctx context.Context, r access.Requester, id string, in dto.MarkDepositPaidRequest) (*dto.OrderResponse, error) {
	return uc.apply(ctx, r, id, orderpolicy.Patch{Deposit: paidPatch(in.PaidDate, in.PaymentMethods)})
}

func (uc *OrderUseCase) apply(ctx context.Context, r access.Requester, id string, patch orderpolicy.Patch) (*dto.OrderResponse, error) {
	now := uc.now()
	var result *orderpolicy.Result
	err := uc.tx.Run(ctx, func(tx repository.Repositories) error {
		order, err := tx.Orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.Errorf(domain.ErrNotFound, "pedido no encontrado")
		}
		agentManager, err := managerOf(ctx, tx.Users, order.AgentID)
		if err != nil {
			return err
		}
		result, err = uc.authorizer.Apply(r, orderpolicy.Snapshot{Order: order, AgentManagerID: agentManager}, patch, now.Format(entity.DateLayout))
		if err != nil {
			return err
		}
		if len(result.Changed) == 0 {
			return nil
		}
		result.Order.UpdatedAt = now
		return tx.Orders.Update(ctx, result.Order)
	})
	if err != nil {
		return nil, err
	}
	if len(result.Changed) > 0 {
		uc.log.Info().
			Str("order_id", id).
			Str("requester_id", r.ID).
			Str("role", r.Role.String()).
			Strs("changed", result.Changed).
			Msg("pedido actualizado")
	}
	return ToOrderResponse(result.Order), nil
}

// LoadOrderInScope carga el pedido y comprueba que el solicitante puede verlo.
func LoadOrderInScope(ctx context.Context, orders repository.OrderRepository, users repository.UserRepository, r access.Requester, id string) (*entity.Order, error) {
	if !r.Role.Valid() {
		return nil, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
	}
	order, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "pedido no encontrado")
	}
	if err := checkOrderScope(ctx, users, r, order); err != nil {
		return nil, err
	}
	return order, nil
}

func checkOrderScope(ctx context.Context, users repository.UserRepository, r access.Requester, order *entity.Order) error {
	var agentManager *string
	if r.Role == entity.RoleManager {
		m, err := managerOf(ctx, users, order.AgentID)
		if err != nil {
			return err
		}
		agentManager = m
	}
	if !access.CanAccessOrder(r, order, agentManager) {
		return domain.Errorf(domain.ErrForbidden, "el pedido no está en su alcance")
	}
	return nil
}

func paidPatch(paidDate *string, methods []string) *orderpolicy.PaymentPatch {
	paid := entity.PaymentPaid
	pp := &orderpolicy.PaymentPatch{Status: &paid, PaidDate: paidDate}
	if len(methods) > 0 {
		m := append([]string(nil), methods...)
		pp.PaymentMethods = &m
	}
	return pp
}

type amount struct {
	field string
	value *decimal.Decimal
}

// nonNegative importes y precios no pueden ser negativos.
func nonNegative(values ...amount) error {
	var details []domain.FieldError
	for _, v := range values {
		if v.value != nil && v.value.IsNegative() {
			details = append(details, domain.FieldError{Field: v.field, Message: "no puede ser negativo"})
		}
	}
	if len(details) > 0 {
		return domain.ValidationError("importes inválidos", details...)
	}
	return nil
}

func tripDetails(in dto.TripDetailsRequest) entity.TripDetails {
	return entity.TripDetails{
		CheckIn:           emptyAsNil(in.CheckIn),
		CheckOut:          emptyAsNil(in.CheckOut),
		Nights:            in.Nights,
		PropertyName:      in.PropertyName,
		PropertyAddress:   in.PropertyAddress,
		RoomType:          in.RoomType,
		MealPlan:          in.MealPlan,
		CityTravel:        in.CityTravel,
		CountryTravel:     in.CountryTravel,
		ReservationNumber: in.ReservationNumber,
		ClientName:        in.ClientName,
		ClientEmail:       in.ClientEmail,
		ClientPhone:       in.ClientPhone,
		ClientDocument:    in.ClientDocument,
		ClientNationality: in.ClientNationality,
		Adults:            in.Adults,
		Children:          in.Children,
		ChildrenAges:      in.ChildrenAges,
		Notes:             in.Notes,
	}
}

func paymentInput(in dto.PaymentRequest) entity.PaymentInput {
	return entity.PaymentInput{
		Amount:         in.Amount,
		Status:         entity.PaymentStatus(in.Status),
		DueDate:        emptyAsNil(in.DueDate),
		PaidDate:       emptyAsNil(in.PaidDate),
		PaymentMethods: in.PaymentMethods,
	}
}

func toPatch(in dto.UpdateOrderRequest) (orderpolicy.Patch, error) {
	p := orderpolicy.Patch{
		CheckIn:           in.CheckIn,
		CheckOut:          in.CheckOut,
		Nights:            in.Nights,
		PropertyName:      in.PropertyName,
		PropertyAddress:   in.PropertyAddress,
		RoomType:          in.RoomType,
		MealPlan:          in.MealPlan,
		CityTravel:        in.CityTravel,
		CountryTravel:     in.CountryTravel,
		ReservationNumber: in.ReservationNumber,
		ClientName:        in.ClientName,
		ClientEmail:       in.ClientEmail,
		ClientPhone:       in.ClientPhone,
		ClientDocument:    in.ClientDocument,
		ClientNationality: in.ClientNationality,
		Adults:            in.Adults,
		Children:          in.Children,
		ChildrenAges:      in.ChildrenAges,
		Notes:             in.Notes,
		OfficialPrice:     in.OfficialPrice,
		TaxClean:          in.TaxClean,
		Discount:          in.Discount,
		TotalPrice:        in.TotalPrice,
		Deposit:           toPaymentPatch(in.Deposit),
		Balance:           toPaymentPatch(in.Balance),
	}
	if in.StatusOrder != nil {
		s := entity.OrderStatus(*in.StatusOrder)
		p.StatusOrder = &s
	}
	amounts := []amount{
		{"officialPrice", in.OfficialPrice},
		{"taxClean", in.TaxClean},
		{"discount", in.Discount},
		{"totalPrice", in.TotalPrice},
	}
	if in.Deposit != nil {
		amounts = append(amounts, amount{"deposit.amount", in.Deposit.Amount})
	}
	if in.Balance != nil {
		amounts = append(amounts, amount{"balance.amount", in.Balance.Amount})
	}
	return p, nonNegative(amounts...)
}

func toPaymentPatch(in *dto.PaymentPatchRequest) *orderpolicy.PaymentPatch {
	if in == nil {
		return nil
	}
	pp := &orderpolicy.PaymentPatch{
		Amount:         in.Amount,
		DueDate:        in.DueDate,
		PaidDate:       in.PaidDate,
		PaymentMethods: in.PaymentMethods,
	}
	if in.Status != nil {
		s := entity.PaymentStatus(*in.Status)
		pp.Status = &s
	}
	return pp
}

func emptyAsNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// ToOrderResponse convierte el pedido en la salida JSON.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	ages := o.ChildrenAges
	if ages == nil {
		ages = []int{}
	}
	return &dto.OrderResponse{
		ID:                o.ID,
		AgentID:           o.AgentID,
		CheckIn:           o.CheckIn,
		CheckOut:          o.CheckOut,
		Nights:            o.Nights,
		PropertyName:      o.PropertyName,
		PropertyAddress:   o.PropertyAddress,
		RoomType:          o.RoomType,
		MealPlan:          o.MealPlan,
		CityTravel:        o.CityTravel,
		CountryTravel:     o.CountryTravel,
		ReservationNumber: o.ReservationNumber,
		ClientName:        o.ClientName,
		ClientEmail:       o.ClientEmail,
		ClientPhone:       o.ClientPhone,
		ClientDocument:    o.ClientDocument,
		ClientNationality: o.ClientNationality,
		Adults:            o.Adults,
		Children:          o.Children,
		ChildrenAges:      ages,
		Notes:             o.Notes,
		OfficialPrice:     o.OfficialPrice,
		TaxClean:          o.TaxClean,
		Discount:          o.Discount,
		TotalPrice:        o.TotalPrice,
		Deposit:           toPaymentResponse(o.Deposit),
		Balance:           toPaymentResponse(o.Balance),
		StatusOrder:       string(o.StatusOrder),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func toPaymentResponse(p entity.Payment) dto.PaymentResponse {
	methods := p.PaymentMethods
	if methods == nil {
		methods = []string{}
	}
	return dto.PaymentResponse{
		Amount:         p.Amount,
		Status:         string(p.Status),
		DueDate:        p.DueDate,
		PaidDate:       p.PaidDate,
		PaymentMethods: methods,
	}
}
