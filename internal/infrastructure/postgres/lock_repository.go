package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

var _ repository.LockRepository = (*AdvisoryLockRepo)(nil)

// AdvisoryLockRepo candados consultivos de PostgreSQL (pg_advisory_xact_lock).
// Solo tienen sentido sobre una pgx.Tx: con el pool se liberan al terminar la sentencia.
type AdvisoryLockRepo struct {
	db Querier
}

// NewAdvisoryLockRepository construye el adaptador de candados.
func NewAdvisoryLockRepository(db Querier) *AdvisoryLockRepo {
	return &AdvisoryLockRepo{db: db}
}

// Acquire espera hasta obtener el candado de key; se libera con el fin de la transacción.
func (r *AdvisoryLockRepo) Acquire(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock %s: %w", key, err)
	}
	return nil
}
