package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout formato ISO de las fechas de reserva y pago (sin hora).
const DateLayout = "2006-01-02"

// OrderStatus estado de aprobación del pedido.
type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderApproved OrderStatus = "approved"
	OrderRejected OrderStatus = "rejected"
)

// Valid indica si s es un estado conocido.
func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderApproved || s == OrderRejected
}

// PaymentStatus estado de un sub-registro de pago (depósito o saldo).
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Valid indica si s es un estado de pago conocido.
func (s PaymentStatus) Valid() bool {
	return s == PaymentUnpaid || s == PaymentPaid
}

// PaymentKind identifica el sub-registro: depósito o saldo.
type PaymentKind string

const (
	PaymentDeposit PaymentKind = "deposit"
	PaymentBalance PaymentKind = "balance"
)

// Valid indica si k es deposit o balance.
func (k PaymentKind) Valid() bool {
	return k == PaymentDeposit || k == PaymentBalance
}

// Payment uno de los dos sub-registros de pago de un pedido.
type Payment struct {
	Amount         decimal.Decimal
	Status         PaymentStatus
	DueDate        *string
	PaidDate       *string
	PaymentMethods []string
}

// IsPaid true si el estado es paid.
func (p Payment) IsPaid() bool { return p.Status == PaymentPaid }

func (p Payment) clone() Payment {
	c := p
	c.DueDate = cloneString(p.DueDate)
	c.PaidDate = cloneString(p.PaidDate)
	if p.PaymentMethods != nil {
		c.PaymentMethods = append([]string(nil), p.PaymentMethods...)
	}
	return c
}

// StampPaidDate fija PaidDate = today si el pago está pagado y aún no tiene fecha.
// Devuelve true si modificó el registro.
func (p *Payment) StampPaidDate(today string) bool {
	if p.Status != PaymentPaid || (p.PaidDate != nil && *p.PaidDate != "") {
		return false
	}
	d := today
	p.PaidDate = &d
	return true
}

// TripDetails campos descriptivos del viaje, del alojamiento y del cliente.
type TripDetails struct {
	CheckIn           *string
	CheckOut          *string
	Nights            int
	PropertyName      string
	PropertyAddress   string
	RoomType          string
	MealPlan          string
	CityTravel        string
	CountryTravel     string
	ReservationNumber string
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	ClientDocument    string
	ClientNationality string
	Adults            int
	Children          int
	ChildrenAges      []int
	Notes             string
}

// Order pedido (reserva) creado por un agente.
type Order struct {
	ID      string
	AgentID string // inmutable tras la creación
	TripDetails

	OfficialPrice decimal.Decimal
	TaxClean      decimal.Decimal
	Discount      decimal.Decimal
	TotalPrice    decimal.Decimal

	Deposit Payment
	Balance Payment

	StatusOrder OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PaymentInput datos de un sub-registro de pago al crear el pedido.
type PaymentInput struct {
	Amount         decimal.Decimal
	Status         PaymentStatus // vacío → unpaid
	DueDate        *string
	PaidDate       *string
	PaymentMethods []string
}

// NewOrderParams entrada cruda para NewOrder.
type NewOrderParams struct {
	Details       TripDetails
	OfficialPrice decimal.Decimal
	TaxClean      decimal.Decimal
	Discount      decimal.Decimal
	TotalPrice    decimal.Decimal // cero → se calcula
	Deposit       PaymentInput
	Balance       PaymentInput
}

// NewOrder construye un pedido pendiente con todos los valores derivados:
// total calculado cuando no se envía, estados de pago por defecto unpaid y
// fecha de pago fijada para los sub-registros creados ya como paid.
func NewOrder(agentID string, p NewOrderParams, now time.Time) *Order {
	today := now.Format(DateLayout)
	o := &Order{
		ID:            uuid.New().String(),
		AgentID:       agentID,
		TripDetails:   p.Details.clone(),
		OfficialPrice: p.OfficialPrice,
		TaxClean:      p.TaxClean,
		Discount:      p.Discount,
		TotalPrice:    p.TotalPrice,
		Deposit:       newPayment(p.Deposit, today),
		Balance:       newPayment(p.Balance, today),
		StatusOrder:   OrderPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if o.TotalPrice.IsZero() {
		o.TotalPrice = ComputeTotal(o.OfficialPrice, o.TaxClean, o.Discount)
	}
	return o
}

func newPayment(in PaymentInput, today string) Payment {
	p := Payment{
		Amount:         in.Amount,
		Status:         in.Status,
		DueDate:        cloneString(in.DueDate),
		PaidDate:       cloneString(in.PaidDate),
		PaymentMethods: append([]string{}, in.PaymentMethods...),
	}
	if p.Status == "" {
		p.Status = PaymentUnpaid
	}
	p.StampPaidDate(today)
	return p
}

// ComputeTotal total = precio oficial + tasa − descuento.
func ComputeTotal(officialPrice, taxClean, discount decimal.Decimal) decimal.Decimal {
	return officialPrice.Add(taxClean).Sub(discount)
}

// Payment devuelve el sub-registro indicado (nil si kind no es válido).
func (o *Order) Payment(kind PaymentKind) *Payment {
	switch kind {
	case PaymentDeposit:
		return &o.Deposit
	case PaymentBalance:
		return &o.Balance
	}
	return nil
}

// Clone copia profunda; las reglas de modificación trabajan sobre la copia.
func (o *Order) Clone() *Order {
	c := *o
	c.TripDetails = o.TripDetails.clone()
	c.Deposit = o.Deposit.clone()
	c.Balance = o.Balance.clone()
	return &c
}

// Deletable un pedido se puede borrar mientras siga pendiente y sin pagos registrados.
func (o *Order) Deletable() bool {
	return o.StatusOrder == OrderPending && !o.Deposit.IsPaid() && !o.Balance.IsPaid()
}

// MissingVoucherFields campos obligatorios para emitir el voucher que faltan (nombres JSON).
func (o *Order) MissingVoucherFields() []string {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("checkIn", o.CheckIn != nil && *o.CheckIn != "")
	check("checkOut", o.CheckOut != nil && *o.CheckOut != "")
	check("nights", o.Nights > 0)
	check("propertyName", o.PropertyName != "")
	check("cityTravel", o.CityTravel != "")
	check("countryTravel", o.CountryTravel != "")
	check("reservationNumber", o.ReservationNumber != "")
	check("clientName", o.ClientName != "")
	check("officialPrice", !o.OfficialPrice.IsZero())
	check("totalPrice", !o.TotalPrice.IsZero())
	return missing
}

func (d TripDetails) clone() TripDetails {
	c := d
	c.CheckIn = cloneString(d.CheckIn)
	c.CheckOut = cloneString(d.CheckOut)
	if d.ChildrenAges != nil {
		c.ChildrenAges = append([]int(nil), d.ChildrenAges...)
	}
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
