// Package orderpolicy decide qué cambios de un pedido se aceptan según el rol de quien los pide.
//
// Orden de evaluación:
//
//  1. Alcance: el agente solo toca sus pedidos, el manager los de sus agentes, el admin todos.
//  2. Lista de campos: estado del pedido y status/paidDate de los pagos solo para manager/admin.
//  3. Bloqueo de importe: si un pago está "paid", solo manager/admin cambian su importe.
//  4. Al pasar un pago a "paid" sin fecha, se fija paidDate = hoy.
//  5. Si cambian precio oficial, tasa o descuento, se recalcula el total.
//
// Apply nunca modifica el pedido recibido: trabaja sobre una copia.
package orderpolicy

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// StatusPolicy qué hacer cuando un agente envía campos de estado reservados a supervisores.
type StatusPolicy string

const (
	// StatusPolicyStrict rechaza la petición con un error de validación (422).
	StatusPolicyStrict StatusPolicy = "strict"
	// StatusPolicyLenient descarta esos campos en silencio y aplica el resto.
	StatusPolicyLenient StatusPolicy = "lenient"
)

// ParseStatusPolicy convierte el valor de configuración; vacío → strict.
func ParseStatusPolicy(s string) (StatusPolicy, error) {
	switch StatusPolicy(s) {
	case "", StatusPolicyStrict:
		return StatusPolicyStrict, nil
	case StatusPolicyLenient:
		return StatusPolicyLenient, nil
	}
	return "", fmt.Errorf("orderpolicy: política de estado desconocida %q", s)
}

// PaymentPatch cambios parciales de un sub-registro de pago. nil = sin cambio.
type PaymentPatch struct {
	Amount         *decimal.Decimal
	Status         *entity.PaymentStatus
	DueDate        *string
	PaidDate       *string
	PaymentMethods *[]string
}

func (p *PaymentPatch) empty() bool {
	return p == nil || (p.Amount == nil && p.Status == nil && p.DueDate == nil && p.PaidDate == nil && p.PaymentMethods == nil)
}

// Patch actualización parcial de un pedido. nil = sin cambio.
type Patch struct {
	CheckIn           *string
	CheckOut          *string
	Nights            *int
	PropertyName      *string
	PropertyAddress   *string
	RoomType          *string
	MealPlan          *string
	CityTravel        *string
	CountryTravel     *string
	ReservationNumber *string
	ClientName        *string
	ClientEmail       *string
	ClientPhone       *string
	ClientDocument    *string
	ClientNationality *string
	Adults            *int
	Children          *int
	ChildrenAges      *[]int
	Notes             *string

	OfficialPrice *decimal.Decimal
	TaxClean      *decimal.Decimal
	Discount      *decimal.Decimal
	TotalPrice    *decimal.Decimal

	StatusOrder *entity.OrderStatus

	Deposit *PaymentPatch
	Balance *PaymentPatch
}

func (p *Patch) payment(kind entity.PaymentKind) *PaymentPatch {
	if kind == entity.PaymentDeposit {
		return p.Deposit
	}
	return p.Balance
}

// Snapshot estado actual del pedido y el manager de su agente (para la regla de alcance).
type Snapshot struct {
	Order          *entity.Order
	AgentManagerID *string
}

// Result pedido resultante (sin persistir) y rutas JSON de los campos que cambiaron.
type Result struct {
	Order   *entity.Order
	Changed []string
}

// Authorizer aplica las reglas de modificación de pedidos.
type Authorizer struct {
	policy StatusPolicy
}

// NewAuthorizer construye el autorizador con la política indicada.
func NewAuthorizer(policy StatusPolicy) *Authorizer {
	if policy == "" {
		policy = StatusPolicyStrict
	}
	return &Authorizer{policy: policy}
}

// Policy política activa.
func (a *Authorizer) Policy() StatusPolicy { return a.policy }

var paymentKinds = []entity.PaymentKind{entity.PaymentDeposit, entity.PaymentBalance}

// Apply valida y fusiona patch sobre una copia de snap.Order. today en formato YYYY-MM-DD.
func (a *Authorizer) Apply(r access.Requester, snap Snapshot, patch Patch, today string) (*Result, error) {
	current := snap.Order
	if current == nil {
		return nil, domain.ErrNotFound
	}
	if !r.Role.Valid() {
		return nil, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
	}
	if !access.CanAccessOrder(r, current, snap.AgentManagerID) {
		return nil, domain.Errorf(domain.ErrForbidden, "no tiene permiso para modificar este pedido")
	}

	if !r.Role.IsSupervisor() {
		var err error
		if patch, err = a.restrictAgent(patch); err != nil {
			return nil, err
		}
		if err := checkPaidAmountLock(current, patch); err != nil {
			return nil, err
		}
	}

	next := current.Clone()
	m := &merger{}
	mergeDetails(m, &next.TripDetails, patch)

	pricingTouched := patch.OfficialPrice != nil || patch.TaxClean != nil || patch.Discount != nil
	m.decimal("officialPrice", &next.OfficialPrice, patch.OfficialPrice)
	m.decimal("taxClean", &next.TaxClean, patch.TaxClean)
	m.decimal("discount", &next.Discount, patch.Discount)
	explicitTotal := patch.TotalPrice != nil && !patch.TotalPrice.IsZero()
	if explicitTotal {
		m.decimal("totalPrice", &next.TotalPrice, patch.TotalPrice)
	} else if pricingTouched {
		total := entity.ComputeTotal(next.OfficialPrice, next.TaxClean, next.Discount)
		m.decimal("totalPrice", &next.TotalPrice, &total)
	}

	if patch.StatusOrder != nil {
		if !patch.StatusOrder.Valid() {
			return nil, domain.ValidationError("estado de pedido inválido",
				domain.FieldError{Field: "statusOrder", Message: "debe ser pending, approved o rejected"})
		}
		m.set("statusOrder", func() bool {
			if next.StatusOrder == *patch.StatusOrder {
				return false
			}
			next.StatusOrder = *patch.StatusOrder
			return true
		})
	}

	for _, kind := range paymentKinds {
		if err := mergePayment(m, kind, next.Payment(kind), current.Payment(kind), patch.payment(kind), today); err != nil {
			return nil, err
		}
	}

	return &Result{Order: next, Changed: m.changed}, nil
}

// restrictAgent aplica la política de estado a un patch enviado por un agente.
func (a *Authorizer) restrictAgent(p Patch) (Patch, error) {
	var fields []domain.FieldError
	if p.StatusOrder != nil {
		fields = append(fields, domain.FieldError{Field: "statusOrder", Message: "solo un manager o admin puede cambiar el estado del pedido"})
	}
	for _, kind := range paymentKinds {
		pp := p.payment(kind)
		if pp == nil {
			continue
		}
		if pp.Status != nil {
			fields = append(fields, domain.FieldError{Field: string(kind) + ".status", Message: "solo un manager o admin puede cambiar el estado del pago"})
		}
		if pp.PaidDate != nil {
			fields = append(fields, domain.FieldError{Field: string(kind) + ".paidDate", Message: "solo un manager o admin puede fijar la fecha de pago"})
		}
	}
	if len(fields) == 0 {
		return p, nil
	}
	if a.policy == StatusPolicyStrict {
		return p, domain.ValidationError("campos reservados a manager o admin", fields...)
	}

	p.StatusOrder = nil
	p.Deposit = withoutStatus(p.Deposit)
	p.Balance = withoutStatus(p.Balance)
	return p, nil
}

func withoutStatus(pp *PaymentPatch) *PaymentPatch {
	if pp == nil {
		return nil
	}
	c := *pp
	c.Status = nil
	c.PaidDate = nil
	return &c
}

// checkPaidAmountLock: un agente no cambia el importe de un pago ya pagado.
func checkPaidAmountLock(current *entity.Order, p Patch) error {
	for _, kind := range paymentKinds {
		pp := p.payment(kind)
		if pp == nil || pp.Amount == nil {
			continue
		}
		pay := current.Payment(kind)
		if pay.IsPaid() && !pay.Amount.Equal(*pp.Amount) {
			return domain.Errorf(domain.ErrForbidden,
				"el importe de %s está bloqueado: el pago ya figura como pagado", kind)
		}
	}
	return nil
}

func mergeDetails(m *merger, d *entity.TripDetails, p Patch) {
	m.date("checkIn", &d.CheckIn, p.CheckIn)
	m.date("checkOut", &d.CheckOut, p.CheckOut)
	m.number("nights", &d.Nights, p.Nights)
	m.text("propertyName", &d.PropertyName, p.PropertyName)
	m.text("propertyAddress", &d.PropertyAddress, p.PropertyAddress)
	m.text("roomType", &d.RoomType, p.RoomType)
	m.text("mealPlan", &d.MealPlan, p.MealPlan)
	m.text("cityTravel", &d.CityTravel, p.CityTravel)
	m.text("countryTravel", &d.CountryTravel, p.CountryTravel)
	m.text("reservationNumber", &d.ReservationNumber, p.ReservationNumber)
	m.text("clientName", &d.ClientName, p.ClientName)
	m.text("clientEmail", &d.ClientEmail, p.ClientEmail)
	m.text("clientPhone", &d.ClientPhone, p.ClientPhone)
	m.text("clientDocument", &d.ClientDocument, p.ClientDocument)
	m.text("clientNationality", &d.ClientNationality, p.ClientNationality)
	m.number("adults", &d.Adults, p.Adults)
	m.number("children", &d.Children, p.Children)
	if p.ChildrenAges != nil {
		m.set("childrenAges", func() bool {
			if slices.Equal(d.ChildrenAges, *p.ChildrenAges) {
				return false
			}
			d.ChildrenAges = append([]int{}, *p.ChildrenAges...)
			return true
		})
	}
	m.text("notes", &d.Notes, p.Notes)
}

func mergePayment(m *merger, kind entity.PaymentKind, next, current *entity.Payment, pp *PaymentPatch, today string) error {
	if pp.empty() {
		return nil
	}
	prefix := string(kind) + "."
	m.decimal(prefix+"amount", &next.Amount, pp.Amount)
	m.date(prefix+"dueDate", &next.DueDate, pp.DueDate)
	m.date(prefix+"paidDate", &next.PaidDate, pp.PaidDate)
	if pp.PaymentMethods != nil {
		m.set(prefix+"paymentMethods", func() bool {
			if slices.Equal(next.PaymentMethods, *pp.PaymentMethods) {
				return false
			}
			next.PaymentMethods = append([]string{}, *pp.PaymentMethods...)
			return true
		})
	}
	if pp.Status != nil {
		if !pp.Status.Valid() {
			return domain.ValidationError("estado de pago inválido",
				domain.FieldError{Field: prefix + "status", Message: "debe ser unpaid o paid"})
		}
		m.set(prefix+"status", func() bool {
			if next.Status == *pp.Status {
				return false
			}
			next.Status = *pp.Status
			return true
		})
		if !current.IsPaid() && next.IsPaid() && next.StampPaidDate(today) {
			m.mark(prefix + "paidDate")
		}
	}
	return nil
}

// merger aplica valores y anota las rutas de los campos que realmente cambian.
type merger struct {
	changed []string
}

func (m *merger) mark(name string) {
	if !slices.Contains(m.changed, name) {
		m.changed = append(m.changed, name)
	}
}

func (m *merger) set(name string, apply func() bool) {
	if apply() {
		m.mark(name)
	}
}

func (m *merger) text(name string, dst *string, src *string) {
	if src == nil || *dst == *src {
		return
	}
	*dst = *src
	m.mark(name)
}

func (m *merger) number(name string, dst *int, src *int) {
	if src == nil || *dst == *src {
		return
	}
	*dst = *src
	m.mark(name)
}

func (m *merger) decimal(name string, dst *decimal.Decimal, src *decimal.Decimal) {
	if src == nil || dst.Equal(*src) {
		return
	}
	*dst = *src
	m.mark(name)
}

// date: "" en el patch borra la fecha.
func (m *merger) date(name string, dst **string, src *string) {
	if src == nil {
		return
	}
	if *src == "" {
		if *dst != nil {
			*dst = nil
			m.mark(name)
		}
		return
	}
	if *dst != nil && **dst == *src {
		return
	}
	v := *src
	*dst = &v
	m.mark(name)
}
