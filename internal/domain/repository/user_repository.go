package repository

import (
	"context"

	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// AgentListFilter filtros del listado de agentes.
type AgentListFilter struct {
	Scope  access.AgentFilter
	Active *bool
	Limit  int
	Offset int
}

// UserRepository define el puerto de persistencia para User (DIP).
// Los métodos Get devuelven (nil, nil) cuando no existe la fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ExistsByRole(ctx context.Context, role entity.Role) (bool, error)
	ListAgents(ctx context.Context, f AgentListFilter) ([]*entity.User, int, error)
}
