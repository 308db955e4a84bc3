package usecase

import (
	"context"
	"time"
)

// InvitationMail datos del correo de invitación.
type InvitationMail struct {
	To          string
	Role        string
	InviterName string
	Link        string
	ExpiresAt   time.Time
}

// Mailer envía el correo de invitación. Un fallo no anula la invitación ya creada.
type Mailer interface {
	SendInvitation(ctx context.Context, mail InvitationMail) error
}
