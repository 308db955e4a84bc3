package usecase

import (
	"context"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

// resolveRequester completa el Requester del token con el manager del agente.
// El JWT solo trae id y rol; el alcance de cuentas bancarias necesita el manager.
func resolveRequester(ctx context.Context, users repository.UserRepository, r access.Requester) (access.Requester, error) {
	if !r.Role.Valid() {
		return r, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
	}
	if r.Role != entity.RoleAgent || r.ManagerID != nil {
		return r, nil
	}
	u, err := users.GetByID(ctx, r.ID)
	if err != nil {
		return r, err
	}
	if u == nil {
		return r, domain.ErrUserNotFound
	}
	r.ManagerID = u.ManagerID
	return r, nil
}

// managerOf manager del usuario indicado (nil si no tiene o no existe).
func managerOf(ctx context.Context, users repository.UserRepository, userID string) (*string, error) {
	u, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return u.ManagerID, nil
}
