package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripDetailsRequest campos descriptivos comunes a la creación de pedidos.
type TripDetailsRequest struct {
	CheckIn           *string `json:"checkIn" validate:"omitempty,datetime=2006-01-02"`
	CheckOut          *string `json:"checkOut" validate:"omitempty,datetime=2006-01-02"`
	Nights            int     `json:"nights" validate:"min=0"`
	PropertyName      string  `json:"propertyName" validate:"max=200"`
	PropertyAddress   string  `json:"propertyAddress" validate:"max=255"`
	RoomType          string  `json:"roomType" validate:"max=120"`
	MealPlan          string  `json:"mealPlan" validate:"max=120"`
	CityTravel        string  `json:"cityTravel" validate:"max=120"`
	CountryTravel     string  `json:"countryTravel" validate:"max=120"`
	ReservationNumber string  `json:"reservationNumber" validate:"max=60"`
	ClientName        string  `json:"clientName" validate:"required,min=1,max=200"`
	ClientEmail       string  `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone       string  `json:"clientPhone" validate:"max=30"`
	ClientDocument    string  `json:"clientDocument" validate:"max=60"`
	ClientNationality string  `json:"clientNationality" validate:"max=60"`
	Adults            int     `json:"adults" validate:"min=0,max=50"`
	Children          int     `json:"children" validate:"min=0,max=50"`
	ChildrenAges      []int   `json:"childrenAges" validate:"omitempty,dive,min=0,max=17"`
	Notes             string  `json:"notes" validate:"max=2000"`
}

// PaymentRequest sub-registro de pago al crear el pedido.
type PaymentRequest struct {
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status" validate:"omitempty,oneof=unpaid paid"`
	DueDate        *string         `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	PaidDate       *string         `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethods []string        `json:"paymentMethods" validate:"omitempty,dive,min=1,max=60"`
}

// CreateOrderRequest entrada para crear un pedido (solo agentes).
type CreateOrderRequest struct {
	TripDetailsRequest
	OfficialPrice decimal.Decimal `json:"officialPrice"`
	TaxClean      decimal.Decimal `json:"taxClean"`
	Discount      decimal.Decimal `json:"discount"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Deposit       PaymentRequest  `json:"deposit"`
	Balance       PaymentRequest  `json:"balance"`
}

// PaymentPatchRequest cambios parciales de un sub-registro de pago.
// Una fecha "" borra el valor actual.
type PaymentPatchRequest struct {
	Amount         *decimal.Decimal `json:"amount"`
	Status         *string          `json:"status" validate:"omitempty,oneof=unpaid paid"`
	DueDate        *string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	PaidDate       *string          `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethods *[]string        `json:"paymentMethods" validate:"omitempty,dive,min=1,max=60"`
}

// UpdateOrderRequest actualización parcial de un pedido; los campos ausentes no cambian.
type UpdateOrderRequest struct {
	CheckIn           *string `json:"checkIn" validate:"omitempty,datetime=2006-01-02"`
	CheckOut          *string `json:"checkOut" validate:"omitempty,datetime=2006-01-02"`
	Nights            *int    `json:"nights" validate:"omitempty,min=0"`
	PropertyName      *string `json:"propertyName" validate:"omitempty,max=200"`
	PropertyAddress   *string `json:"propertyAddress" validate:"omitempty,max=255"`
	RoomType          *string `json:"roomType" validate:"omitempty,max=120"`
	MealPlan          *string `json:"mealPlan" validate:"omitempty,max=120"`
	CityTravel        *string `json:"cityTravel" validate:"omitempty,max=120"`
	CountryTravel     *string `json:"countryTravel" validate:"omitempty,max=120"`
	ReservationNumber *string `json:"reservationNumber" validate:"omitempty,max=60"`
	ClientName        *string `json:"clientName" validate:"omitempty,min=1,max=200"`
	ClientEmail       *string `json:"clientEmail" validate:"omitempty,email"`
	ClientPhone       *string `json:"clientPhone" validate:"omitempty,max=30"`
	ClientDocument    *string `json:"clientDocument" validate:"omitempty,max=60"`
	ClientNationality *string `json:"clientNationality" validate:"omitempty,max=60"`
	Adults            *int    `json:"adults" validate:"omitempty,min=0,max=50"`
	Children          *int    `json:"children" validate:"omitempty,min=0,max=50"`
	ChildrenAges      *[]int  `json:"childrenAges" validate:"omitempty,dive,min=0,max=17"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`

	OfficialPrice *decimal.Decimal `json:"officialPrice"`
	TaxClean      *decimal.Decimal `json:"taxClean"`
	Discount      *decimal.Decimal `json:"discount"`
	TotalPrice    *decimal.Decimal `json:"totalPrice"`

	StatusOrder *string `json:"statusOrder" validate:"omitempty,oneof=pending approved rejected"`

	Deposit *PaymentPatchRequest `json:"deposit"`
	Balance *PaymentPatchRequest `json:"balance"`
}

// ConfirmOrderRequest aprobación o rechazo de un pedido por su manager o un admin.
type ConfirmOrderRequest struct {
	StatusOrder string `json:"statusOrder" validate:"required,oneof=approved rejected"`
}

// ConfirmPaymentRequest marca como pagado el depósito o el saldo.
type ConfirmPaymentRequest struct {
	Payment        string   `json:"payment" validate:"required,oneof=deposit balance"`
	PaidDate       *string  `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethods []string `json:"paymentMethods" validate:"omitempty,dive,min=1,max=60"`
}

// MarkDepositPaidRequest cuerpo opcional del atajo deposit-paid.
type MarkDepositPaidRequest struct {
	PaidDate       *string  `json:"paidDate" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethods []string `json:"paymentMethods" validate:"omitempty,dive,min=1,max=60"`
}

// OrderListRequest filtros del listado de pedidos.
type OrderListRequest struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
	Search string `query:"search" validate:"max=100"`
}

// PaymentResponse sub-registro de pago en la salida.
type PaymentResponse struct {
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	DueDate        *string         `json:"dueDate"`
	PaidDate       *string         `json:"paidDate"`
	PaymentMethods []string        `json:"paymentMethods"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID                string          `json:"id"`
	AgentID           string          `json:"agentId"`
	CheckIn           *string         `json:"checkIn"`
	CheckOut          *string         `json:"checkOut"`
	Nights            int             `json:"nights"`
	PropertyName      string          `json:"propertyName"`
	PropertyAddress   string          `json:"propertyAddress"`
	RoomType          string          `json:"roomType"`
	MealPlan          string          `json:"mealPlan"`
	CityTravel        string          `json:"cityTravel"`
	CountryTravel     string          `json:"countryTravel"`
	ReservationNumber string          `json:"reservationNumber"`
	ClientName        string          `json:"clientName"`
	ClientEmail       string          `json:"clientEmail"`
	ClientPhone       string          `json:"clientPhone"`
	ClientDocument    string          `json:"clientDocument"`
	ClientNationality string          `json:"clientNationality"`
	Adults            int             `json:"adults"`
	Children          int             `json:"children"`
	ChildrenAges      []int           `json:"childrenAges"`
	Notes             string          `json:"notes"`
	OfficialPrice     decimal.Decimal `json:"officialPrice"`
	TaxClean          decimal.Decimal `json:"taxClean"`
	Discount          decimal.Decimal `json:"discount"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	Deposit           PaymentResponse `json:"deposit"`
	Balance           PaymentResponse `json:"balance"`
	StatusOrder       string          `json:"statusOrder"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
