package repository

import (
	"context"

	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// BankAccountRepository define el puerto de persistencia para BankAccount.
type BankAccountRepository interface {
	Create(ctx context.Context, account *entity.BankAccount) error
	GetByID(ctx context.Context, id string) (*entity.BankAccount, error)
	GetByIdentifier(ctx context.Context, managerID, identifier string) (*entity.BankAccount, error)
	// IdentifierTaken true si otra cuenta (distinta de excludeID) del manager usa el identificador.
	IdentifierTaken(ctx context.Context, managerID, identifier, excludeID string) (bool, error)
	Update(ctx context.Context, account *entity.BankAccount) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope access.BankAccountFilter) ([]*entity.BankAccount, error)
	// FirstByManager cuenta usada en el voucher (orden por identificador).
	FirstByManager(ctx context.Context, managerID string) (*entity.BankAccount, error)
}
