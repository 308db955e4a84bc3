package repository

import "context"

// LockRepository candados con alcance de transacción. Acquire bloquea hasta obtener
// el candado de key y lo libera el Commit o Rollback; fuera de TxRunner no protege nada.
type LockRepository interface {
	Acquire(ctx context.Context, key string) error
}

// Claves de candado compartidas por los casos de uso.
const (
	LockFirstAdmin = "users:first-admin"
)

// InvitationEmailLock clave que serializa la emisión de invitaciones para un email normalizado.
func InvitationEmailLock(email string) string {
	return "invitations:email:" + email
}
