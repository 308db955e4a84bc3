package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

// AgentUseCase gestión de agentes por su manager o por un admin.
type AgentUseCase struct {
	users repository.UserRepository
	now   func() time.Time
}

// NewAgentUseCase construye el caso de uso con el puerto de persistencia.
func NewAgentUseCase(users repository.UserRepository) *AgentUseCase {
	return &AgentUseCase{users: users, now: time.Now}
}

// List agentes visibles para el solicitante, con filtro opcional por estado.
func (uc *AgentUseCase) List(ctx context.Context, r access.Requester, in dto.AgentListRequest) (*dto.UserListResponse, error) {
	scope, err := access.AgentScope(r)
	if err != nil {
		return nil, err
	}
	in.DefaultPage()
	list, total, err := uc.users.ListAgents(ctx, repository.AgentListFilter{
		Scope:  scope,
		Active: in.Active,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Get un usuario gestionable por el solicitante.
func (uc *AgentUseCase) Get(ctx context.Context, r access.Requester, id string) (*dto.UserResponse, error) {
	target, err := uc.managed(ctx, r, id)
	if err != nil {
		return nil, err
	}
	return auth.ToUserResponse(target), nil
}

// Update nombre, apellido, teléfono y email (único) de un agente.
func (uc *AgentUseCase) Update(ctx context.Context, r access.Requester, id string, in dto.UpdateAgentRequest) (*dto.UserResponse, error) {
	target, err := uc.managed(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := entity.NormalizeEmail(*in.Email)
		if email != target.Email {
			other, err := uc.users.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, domain.Errorf(domain.ErrConflict, "el email %s ya está registrado", email)
			}
			target.Email = email
		}
	}
	if in.FirstName != nil {
		target.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		target.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		target.Phone = strings.TrimSpace(*in.Phone)
	}
	target.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(target), nil
}

// ToggleStatus bloquea o desbloquea un usuario. Un admin nunca puede bloquearse.
func (uc *AgentUseCase) ToggleStatus(ctx context.Context, r access.Requester, id string) (*dto.UserResponse, error) {
	target, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.Role == entity.RoleAdmin {
		return nil, domain.Errorf(domain.ErrForbidden, "no se puede cambiar el estado de un administrador")
	}
	if !access.CanManageAgent(r, target) {
		return nil, domain.Errorf(domain.ErrForbidden, "el usuario no pertenece a su equipo")
	}
	target.IsActive = !target.IsActive
	target.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, target); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(target), nil
}

func (uc *AgentUseCase) managed(ctx context.Context, r access.Requester, id string) (*entity.User, error) {
	if !r.Role.Valid() {
		return nil, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
	}
	target, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if !access.CanManageAgent(r, target) {
		return nil, domain.Errorf(domain.ErrForbidden, "el usuario no pertenece a su equipo")
	}
	return target, nil
}
