package dto

import (
	"strings"
	"time"
)

// CreateBankAccountRequest entrada para crear una cuenta bancaria del manager.
type CreateBankAccountRequest struct {
	BankName   string  `json:"bankName" validate:"required,min=2,max=120"`
	Swift      string  `json:"swift" validate:"required,alphanum,min=8,max=11"`
	IBAN       string  `json:"iban" validate:"required,alphanum,min=15,max=34"`
	HolderName string  `json:"holderName" validate:"required,min=2,max=120,holdername"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
	Identifier string  `json:"identifier" validate:"required,min=1,max=60"`
}

// Normalize quita espacios de SWIFT/IBAN antes de validar (los clientes suelen enviarlos agrupados).
func (r *CreateBankAccountRequest) Normalize() {
	r.Swift = compactCode(r.Swift)
	r.IBAN = compactCode(r.IBAN)
}

// UpdateBankAccountRequest cambios parciales de una cuenta.
type UpdateBankAccountRequest struct {
	BankName   *string `json:"bankName" validate:"omitempty,min=2,max=120"`
	Swift      *string `json:"swift" validate:"omitempty,alphanum,min=8,max=11"`
	IBAN       *string `json:"iban" validate:"omitempty,alphanum,min=15,max=34"`
	HolderName *string `json:"holderName" validate:"omitempty,min=2,max=120,holdername"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
	Identifier *string `json:"identifier" validate:"omitempty,min=1,max=60"`
}

// Normalize igual que en la creación.
func (r *UpdateBankAccountRequest) Normalize() {
	if r.Swift != nil {
		s := compactCode(*r.Swift)
		r.Swift = &s
	}
	if r.IBAN != nil {
		s := compactCode(*r.IBAN)
		r.IBAN = &s
	}
}

// BankAccountResponse salida de una cuenta bancaria.
type BankAccountResponse struct {
	ID         string    `json:"id"`
	ManagerID  string    `json:"managerId"`
	BankName   string    `json:"bankName"`
	Swift      string    `json:"swift"`
	IBAN       string    `json:"iban"`
	HolderName string    `json:"holderName"`
	Address    *string   `json:"address"`
	Identifier string    `json:"identifier"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BankAccountListResponse lista de cuentas.
type BankAccountListResponse struct {
	Items []BankAccountResponse `json:"items"`
}

func compactCode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
