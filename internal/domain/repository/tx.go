package repository

import "context"

// Repositories repositorios atados a una misma transacción.
type Repositories struct {
	Users        UserRepository
	Invitations  InvitationRepository
	Orders       OrderRepository
	BankAccounts BankAccountRepository
	Locks        LockRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn no devuelve error, Rollback si lo hace.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Repositories) error) error
}
