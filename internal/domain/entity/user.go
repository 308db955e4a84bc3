package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role rol de un usuario del sistema. Conjunto cerrado: admin, manager, agent.
type Role string

// Roles válidos para User.
const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAgent   Role = "agent"
)

// ParseRole convierte el texto del token o del body en un Role; ok=false si no es uno de los tres.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleAgent:
		return RoleAgent, true
	}
	return "", false
}

// Valid indica si r es uno de los roles conocidos.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// IsSupervisor true para admin y manager (pueden aprobar pedidos y confirmar pagos).
func (r Role) IsSupervisor() bool {
	return r == RoleAdmin || r == RoleManager
}

func (r Role) String() string { return string(r) }

// User representa un usuario del sistema.
// ManagerID solo se informa para agentes invitados por un manager.
type User struct {
	ID           string
	Role         Role
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	IsActive     bool
	ManagerID    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUserParams datos de entrada para construir un User.
type NewUserParams struct {
	Role         Role
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	ManagerID    *string
}

// NewUser construye un usuario activo con ID y timestamps; el hash ya viene calculado.
func NewUser(p NewUserParams, now time.Time) *User {
	return &User{
		ID:           uuid.New().String(),
		Role:         p.Role,
		Email:        NormalizeEmail(p.Email),
		PasswordHash: p.PasswordHash,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Phone:        strings.TrimSpace(p.Phone),
		IsActive:     true,
		ManagerID:    p.ManagerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FullName nombre y apellido.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasManager true si el usuario es un agente asignado a un manager.
func (u *User) HasManager() bool {
	return u.ManagerID != nil && *u.ManagerID != ""
}

// NormalizeEmail minúsculas y sin espacios; el índice único de users.email trabaja sobre este valor.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
