// Package access resuelve qué filas puede ver cada rol.
//
// Las funciones son puras: reciben al solicitante y devuelven un filtro que los
// repositorios traducen a SQL. Ningún caso de uso compara roles por su cuenta.
package access

import (
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
)

// Requester identidad del usuario que hace la petición.
type Requester struct {
	ID        string
	Role      entity.Role
	ManagerID *string // solo agentes
}

// FromUser construye el Requester a partir del usuario persistido.
func FromUser(u *entity.User) Requester {
	return Requester{ID: u.ID, Role: u.Role, ManagerID: u.ManagerID}
}

// OrderFilter restricción de visibilidad de pedidos. Ambos vacíos = sin restricción.
type OrderFilter struct {
	AgentID   string // agent_id = AgentID
	ManagerID string // agent_id IN (SELECT id FROM users WHERE manager_id = ManagerID)
}

// Unrestricted true si el filtro no limita filas.
func (f OrderFilter) Unrestricted() bool { return f.AgentID == "" && f.ManagerID == "" }

// BankAccountFilter restricción de visibilidad de cuentas bancarias.
type BankAccountFilter struct {
	ManagerID string // vacío = todas
}

// AgentFilter restricción de visibilidad de listados de agentes.
type AgentFilter struct {
	ManagerID string // vacío = todos los agentes
}

// OrderScope admin: todo; manager: pedidos de sus agentes; agent: los propios.
func OrderScope(r Requester) (OrderFilter, error) {
	switch r.Role {
	case entity.RoleAdmin:
		return OrderFilter{}, nil
	case entity.RoleManager:
		return OrderFilter{ManagerID: r.ID}, nil
	case entity.RoleAgent:
		return OrderFilter{AgentID: r.ID}, nil
	}
	return OrderFilter{}, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
}

// BankAccountScope admin: todas; manager: las propias; agent: las de su manager.
func BankAccountScope(r Requester) (BankAccountFilter, error) {
	switch r.Role {
	case entity.RoleAdmin:
		return BankAccountFilter{}, nil
	case entity.RoleManager:
		return BankAccountFilter{ManagerID: r.ID}, nil
	case entity.RoleAgent:
		if r.ManagerID == nil || *r.ManagerID == "" {
			return BankAccountFilter{}, domain.Errorf(domain.ErrNotFound, "el agente no tiene un manager asignado")
		}
		return BankAccountFilter{ManagerID: *r.ManagerID}, nil
	}
	return BankAccountFilter{}, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
}

// AgentScope admin: todos los agentes; manager: los suyos; agent: prohibido.
func AgentScope(r Requester) (AgentFilter, error) {
	switch r.Role {
	case entity.RoleAdmin:
		return AgentFilter{}, nil
	case entity.RoleManager:
		return AgentFilter{ManagerID: r.ID}, nil
	case entity.RoleAgent:
		return AgentFilter{}, domain.Errorf(domain.ErrForbidden, "los agentes no pueden consultar agentes")
	}
	return AgentFilter{}, domain.Errorf(domain.ErrInvalidRole, "rol inválido: %q", r.Role)
}

// CanAccessOrder comprueba la misma regla que OrderScope sobre un pedido concreto.
// agentManagerID es el manager del agente dueño del pedido.
func CanAccessOrder(r Requester, order *entity.Order, agentManagerID *string) bool {
	switch r.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleManager:
		return agentManagerID != nil && *agentManagerID == r.ID
	case entity.RoleAgent:
		return order.AgentID == r.ID
	}
	return false
}

// CanManageAgent true si r puede ver o modificar al usuario target.
func CanManageAgent(r Requester, target *entity.User) bool {
	switch r.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleManager:
		return target.Role == entity.RoleAgent && target.ManagerID != nil && *target.ManagerID == r.ID
	}
	return false
}
