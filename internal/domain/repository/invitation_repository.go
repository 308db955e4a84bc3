package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// InvitationRepository define el puerto de persistencia para Invitation.
type InvitationRepository interface {
	Create(ctx context.Context, inv *entity.Invitation) error
	GetByID(ctx context.Context, id string) (*entity.Invitation, error)
	GetByToken(ctx context.Context, token string) (*entity.Invitation, error)
	// GetByTokenForUpdate bloquea la fila hasta el fin de la transacción.
	GetByTokenForUpdate(ctx context.Context, token string) (*entity.Invitation, error)
	// FindActiveByEmail devuelve la invitación sin usar y no expirada a fecha now.
	FindActiveByEmail(ctx context.Context, email string, now time.Time) (*entity.Invitation, error)
	MarkUsed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// List invitedBy vacío = todas. Devuelve la página y el total sin paginar.
	List(ctx context.Context, invitedBy string, limit, offset int) ([]*entity.Invitation, int, error)
}
