package repository

import (
	"context"

	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// OrderListFilter filtros del listado de pedidos.
type OrderListFilter struct {
	Scope  access.OrderFilter
	Status entity.OrderStatus // vacío = todos
	Search string             // cliente o número de reserva
	Limit  int
	Offset int
}

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f OrderListFilter) ([]*entity.Order, int, error)
}
