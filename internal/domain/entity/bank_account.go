package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BankAccount cuenta de destino de pagos propiedad de un manager.
// (ManagerID, Identifier) es único: un manager no puede repetir identificador.
type BankAccount struct {
	ID         string
	ManagerID  string
	BankName   string
	Swift      string
	IBAN       string
	HolderName string
	Address    *string
	Identifier string // etiqueta legible, ej. "EUR principal"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBankAccountParams datos para crear una cuenta.
type NewBankAccountParams struct {
	BankName   string
	Swift      string
	IBAN       string
	HolderName string
	Address    *string
	Identifier string
}

// NewBankAccount normaliza SWIFT/IBAN (mayúsculas, sin espacios) y asigna ID.
func NewBankAccount(managerID string, p NewBankAccountParams, now time.Time) *BankAccount {
	return &BankAccount{
		ID:         uuid.New().String(),
		ManagerID:  managerID,
		BankName:   strings.TrimSpace(p.BankName),
		Swift:      NormalizeBankCode(p.Swift),
		IBAN:       NormalizeBankCode(p.IBAN),
		HolderName: strings.TrimSpace(p.HolderName),
		Address:    p.Address,
		Identifier: strings.TrimSpace(p.Identifier),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// OwnedBy true si la cuenta pertenece al manager indicado.
func (b *BankAccount) OwnedBy(managerID string) bool {
	return b.ManagerID == managerID
}

// NormalizeBankCode quita espacios y pasa a mayúsculas (SWIFT / IBAN).
func NormalizeBankCode(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}
