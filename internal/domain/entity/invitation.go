package entity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InvitationTTL vigencia de una invitación desde su creación.
const InvitationTTL = 7 * 24 * time.Hour

const invitationTokenBytes = 32

// Invitation token de un solo uso que habilita el auto-registro con un rol concreto.
type Invitation struct {
	ID        string
	Email     string
	Role      Role // manager | agent
	InvitedBy string
	Token     string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// NewInvitation construye una invitación con token aleatorio y expiración now+7d.
func NewInvitation(email string, role Role, invitedBy string, now time.Time) (*Invitation, error) {
	token, err := newInvitationToken()
	if err != nil {
		return nil, err
	}
	return &Invitation{
		ID:        uuid.New().String(),
		Email:     NormalizeEmail(email),
		Role:      role,
		InvitedBy: invitedBy,
		Token:     token,
		ExpiresAt: now.Add(InvitationTTL),
		CreatedAt: now,
	}, nil
}

// Expired true si now es posterior a ExpiresAt.
func (i *Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Active una invitación está activa si no se usó y no ha expirado.
func (i *Invitation) Active(now time.Time) bool {
	return !i.Used && !i.Expired(now)
}

// CanInvite reglas de autoridad: solo admin invita managers; admin o manager invitan agentes.
func CanInvite(inviter Role, invited Role) bool {
	switch invited {
	case RoleManager:
		return inviter == RoleAdmin
	case RoleAgent:
		return inviter == RoleAdmin || inviter == RoleManager
	}
	return false
}

// ManagerForInvitee devuelve el manager del nuevo usuario: solo cuando un manager invita a un agente.
func ManagerForInvitee(inviter *User, invited Role) *string {
	if inviter == nil || inviter.Role != RoleManager || invited != RoleAgent {
		return nil
	}
	id := inviter.ID
	return &id
}

func newInvitationToken() (string, error) {
	b := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token de invitación: %w", err)
	}
	return hex.EncodeToString(b), nil
}
