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
	"github.com/jhoicas/Booking-api/pkg/logger"
)

// InvitationUseCase emisión, canje y cancelación de invitaciones.
type InvitationUseCase struct {
	users       repository.UserRepository
	invitations repository.InvitationRepository
	tx          repository.TxRunner
	tokens      *auth.TokenIssuer
	mailer      Mailer
	frontendURL string
	log         *logger.Logger
	now         func() time.Time
}

// NewInvitationUseCase construye el caso de uso. frontendURL es la base del enlace de registro.
func NewInvitationUseCase(
	users repository.UserRepository,
	invitations repository.InvitationRepository,
	tx repository.TxRunner,
	tokens *auth.TokenIssuer,
	mailer Mailer,
	frontendURL string,
	log *logger.Logger,
) *InvitationUseCase {
	return &InvitationUseCase{
		users:       users,
		invitations: invitations,
		tx:          tx,
		tokens:      tokens,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log,
		now:         time.Now,
	}
}

// Create emite una invitación. Solo admin invita managers; admin o manager invitan agentes.
// El correo se envía después de persistir y su fallo solo se registra.
func (uc *InvitationUseCase) Create(ctx context.Context, r access.Requester, in dto.CreateInvitationRequest) (*dto.InvitationResponse, error) {
	role, ok := entity.ParseRole(in.Role)
	if !ok || role == entity.RoleAdmin {
		return nil, domain.ValidationError("rol de invitación inválido",
			domain.FieldError{Field: "role", Message: "debe ser manager o agent"})
	}
	if !entity.CanInvite(r.Role, role) {
		return nil, domain.Errorf(domain.ErrForbidden, "el rol %s no puede invitar a %s", r.Role, role)
	}
	now := uc.now()
	email := entity.NormalizeEmail(in.Email)

	// Comprobación e inserción bajo un candado por email: dos emisiones simultáneas
	// no pueden dejar dos invitaciones vigentes.
	var inv *entity.Invitation
	err := uc.tx.Run(ctx, func(tx repository.Repositories) error {
		if err := tx.Locks.Acquire(ctx, repository.InvitationEmailLock(email)); err != nil {
			return err
		}
		existing, err := tx.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Errorf(domain.ErrConflict, "ya existe un usuario con el email %s", email)
		}
		active, err := tx.Invitations.FindActiveByEmail(ctx, email, now)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.Errorf(domain.ErrConflict, "ya hay una invitación vigente para %s", active.Email)
		}

		inv, err = entity.NewInvitation(email, role, r.ID, now)
		if err != nil {
			return err
		}
		return tx.Invitations.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	uc.notify(ctx, inv)
	return toInvitationResponse(inv), nil
}

func (uc *InvitationUseCase) notify(ctx context.Context, inv *entity.Invitation) {
	inviterName := ""
	if inviter, err := uc.users.GetByID(ctx, inv.InvitedBy); err == nil && inviter != nil {
		inviterName = inviter.FullName()
	}
	mail := InvitationMail{
		To:          inv.Email,
		Role:        inv.Role.String(),
		InviterName: inviterName,
		Link:        uc.frontendURL + "/register/" + inv.Token,
		ExpiresAt:   inv.ExpiresAt,
	}
	if err := uc.mailer.SendInvitation(ctx, mail); err != nil {
		uc.log.Warn().Err(err).
			Str("invitation_id", inv.ID).
			Str("email", inv.Email).
			Msg("no se pudo enviar el correo de invitación")
	}
}

// Redeem canjea el token: crea el usuario con el rol de la invitación y la marca como usada.
// Todo ocurre en una transacción con la invitación bloqueada (FOR UPDATE).
func (uc *InvitationUseCase) Redeem(ctx context.Context, token string, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()

	var user *entity.User
	err = uc.tx.Run(ctx, func(tx repository.Repositories) error {
		inv, err := tx.Invitations.GetByTokenForUpdate(ctx, token)
		if err != nil {
			return err
		}
		if inv == nil || !inv.Active(now) {
			return domain.ErrInvalidInvitation
		}
		existing, err := tx.Users.GetByEmail(ctx, inv.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Errorf(domain.ErrConflict, "ya existe un usuario con el email %s", inv.Email)
		}
		inviter, err := tx.Users.GetByID(ctx, inv.InvitedBy)
		if err != nil {
			return err
		}
		user = entity.NewUser(entity.NewUserParams{
			Role:         inv.Role,
			Email:        inv.Email,
			PasswordHash: hash,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Phone:        in.Phone,
			ManagerID:    entity.ManagerForInvitee(inviter, inv.Role),
		}, now)
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Invitations.MarkUsed(ctx, inv.ID)
	})
	if err != nil {
		return nil, err
	}

	jwtToken, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("invitación canjeada")
	return &dto.AuthResponse{Token: jwtToken, User: *auth.ToUserResponse(user)}, nil
}

// Cancel borra la invitación. Solo quien la emitió o un admin; no si ya se usó.
func (uc *InvitationUseCase) Cancel(ctx context.Context, r access.Requester, id string) error {
	inv, err := uc.invitations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if inv == nil {
		return domain.Errorf(domain.ErrNotFound, "invitación no encontrada")
	}
	if r.Role != entity.RoleAdmin && inv.InvitedBy != r.ID {
		return domain.Errorf(domain.ErrForbidden, "solo quien emitió la invitación o un admin puede cancelarla")
	}
	if inv.Used {
		return domain.Errorf(domain.ErrInvalidInput, "la invitación ya fue utilizada")
	}
	return uc.invitations.Delete(ctx, id)
}

// List admin ve todas; un manager solo las que emitió.
func (uc *InvitationUseCase) List(ctx context.Context, r access.Requester, page dto.PageRequest) (*dto.InvitationListResponse, error) {
	page.DefaultPage()
	invitedBy := ""
	switch r.Role {
	case entity.RoleAdmin:
	case entity.RoleManager:
		invitedBy = r.ID
	default:
		return nil, domain.Errorf(domain.ErrForbidden, "los agentes no gestionan invitaciones")
	}
	list, total, err := uc.invitations.List(ctx, invitedBy, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvitationResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvitationResponse(inv))
	}
	return &dto.InvitationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Verify datos públicos de una invitación vigente para el formulario de registro.
func (uc *InvitationUseCase) Verify(ctx context.Context, token string) (*dto.InvitationCheckResponse, error) {
	inv, err := uc.invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv == nil || !inv.Active(uc.now()) {
		return nil, domain.ErrInvalidInvitation
	}
	return &dto.InvitationCheckResponse{Email: inv.Email, Role: inv.Role.String(), ExpiresAt: inv.ExpiresAt}, nil
}

func toInvitationResponse(inv *entity.Invitation) *dto.InvitationResponse {
	return &dto.InvitationResponse{
		ID:        inv.ID,
		Email:     inv.Email,
		Role:      inv.Role.String(),
		InvitedBy: inv.InvitedBy,
		Token:     inv.Token,
		ExpiresAt: inv.ExpiresAt,
		Used:      inv.Used,
		CreatedAt: inv.CreatedAt,
	}
}
