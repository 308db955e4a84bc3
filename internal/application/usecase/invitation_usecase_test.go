package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
	"github.com/jhoicas/Booking-api/internal/infrastructure/memtest"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

var registerForm = dto.RegisterRequest{Password: "password123", FirstName: "Pablo", LastName: "Soto"}

func TestInvitation_ManagerInvitaAgente_QuedaAsignado(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	inv, err := uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "Nuevo@Example.com", Role: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", inv.Email)
	assert.Len(t, inv.Token, 64)
	assert.Equal(t, fixedNow.Add(entity.InvitationTTL), inv.ExpiresAt)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "http://localhost:5173/register/"+inv.Token, f.mailer.sent[0].Link)
	assert.Equal(t, tm.managerM.FullName(), f.mailer.sent[0].InviterName)

	out, err := uc.Redeem(ctx, inv.Token, registerForm)
	require.NoError(t, err)
	assert.Equal(t, "agent", out.User.Role)
	require.NotNil(t, out.User.ManagerID)
	assert.Equal(t, tm.managerM.ID, *out.User.ManagerID)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Redeem(ctx, inv.Token, registerForm)
	assert.ErrorIs(t, err, domain.ErrInvalidInvitation, "el token es de un solo uso")
}

func TestInvitation_AdminInvitaAgente_SinManager(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	inv, err := uc.Create(ctx, req(tm.admin), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	require.NoError(t, err)
	out, err := uc.Redeem(ctx, inv.Token, registerForm)
	require.NoError(t, err)
	assert.Nil(t, out.User.ManagerID)
}

func TestInvitation_ReglasDeAutoridad(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	_, err := uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "x@example.com", Role: "manager"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(ctx, req(tm.agentA), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(ctx, req(tm.admin), dto.CreateInvitationRequest{Email: "x@example.com", Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Create(ctx, req(tm.admin), dto.CreateInvitationRequest{Email: "x@example.com", Role: "manager"})
	assert.NoError(t, err)
}

func TestInvitation_Conflictos(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	_, err := uc.Create(ctx, req(tm.admin), dto.CreateInvitationRequest{Email: "a@example.com", Role: "agent"})
	assert.ErrorIs(t, err, domain.ErrConflict, "ya existe un usuario con ese email")

	_, err = uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, req(tm.managerN), dto.CreateInvitationRequest{Email: "X@example.com", Role: "agent"})
	assert.ErrorIs(t, err, domain.ErrConflict, "ya hay una invitación vigente")
}

func TestInvitation_Expirada(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	inv, err := uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	require.NoError(t, err)

	uc.now = func() time.Time { return fixedNow.Add(entity.InvitationTTL + time.Minute) }
	_, err = uc.Verify(ctx, inv.Token)
	assert.ErrorIs(t, err, domain.ErrInvalidInvitation)
	_, err = uc.Redeem(ctx, inv.Token, registerForm)
	assert.ErrorIs(t, err, domain.ErrInvalidInvitation)

	// Caducada, ya no bloquea una nueva invitación al mismo email.
	_, err = uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	assert.NoError(t, err)
}

func TestInvitation_RedeemConEmailOcupado_NoMarcaUsada(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	inv, err := uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	require.NoError(t, err)
	f.seed(t, entity.RoleAgent, "x@example.com", nil)

	_, err = uc.Redeem(ctx, inv.Token, registerForm)
	assert.ErrorIs(t, err, domain.ErrConflict)

	check, err := uc.Verify(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "agent", check.Role)
}

func TestInvitation_FalloDeCorreoNoImpideLaInvitacion(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	f.mailer.err = errors.New("smtp caído")

	inv, err := f.invitations().Create(context.Background(), req(tm.admin), dto.CreateInvitationRequest{Email: "x@example.com", Role: "manager"})
	require.NoError(t, err)
	assert.NotEmpty(t, inv.Token)
}

func TestInvitation_CancelYList(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	byM, err := uc.Create(ctx, req(tm.managerM), dto.CreateInvitationRequest{Email: "x@example.com", Role: "agent"})
	require.NoError(t, err)
	byN, err := uc.Create(ctx, req(tm.managerN), dto.CreateInvitationRequest{Email: "y@example.com", Role: "agent"})
	require.NoError(t, err)

	listM, err := uc.List(ctx, req(tm.managerM), dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, listM.Items, 1)
	assert.Equal(t, byM.ID, listM.Items[0].ID)

	listAdmin, err := uc.List(ctx, req(tm.admin), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, listAdmin.Page.Total)

	_, err = uc.List(ctx, req(tm.agentA), dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.ErrorIs(t, uc.Cancel(ctx, req(tm.managerM), byN.ID), domain.ErrForbidden)
	assert.ErrorIs(t, uc.Cancel(ctx, req(tm.managerM), "no-existe"), domain.ErrNotFound)
	require.NoError(t, uc.Cancel(ctx, req(tm.admin), byN.ID))

	_, err = uc.Redeem(ctx, byM.Token, registerForm)
	require.NoError(t, err)
	assert.ErrorIs(t, uc.Cancel(ctx, req(tm.managerM), byM.ID), domain.ErrInvalidInput)
}

func TestInvitation_ListTotalNoDependeDeLaPagina(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	uc := f.invitations()
	ctx := context.Background()

	for _, email := range []string{"p1@example.com", "p2@example.com", "p3@example.com"} {
		_, err := uc.Create(ctx, req(tm.admin), dto.CreateInvitationRequest{Email: email, Role: "agent"})
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, req(tm.admin), dto.PageRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total)

	last, err := uc.List(ctx, req(tm.admin), dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.Equal(t, 3, last.Page.Total)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

// slowInvitations ensancha la ventana entre la búsqueda de invitación vigente y el alta.
type slowInvitations struct {
	repository.InvitationRepository
}

func (s slowInvitations) FindActiveByEmail(ctx context.Context, email string, now time.Time) (*entity.Invitation, error) {
	time.Sleep(5 * time.Millisecond)
	return s.InvitationRepository.FindActiveByEmail(ctx, email, now)
}

type slowInvitationsTx struct {
	store *memtest.Store
}

func (s slowInvitationsTx) Run(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.store.Run(ctx, func(tx repository.Repositories) error {
		tx.Invitations = slowInvitations{tx.Invitations}
		return fn(tx)
	})
}

func TestInvitation_CreateConcurrente_UnaSolaVigente(t *testing.T) {
	f := newFixture(t)
	tm := f.team(t)
	repos := f.store.Repositories()
	uc := NewInvitationUseCase(repos.Users, slowInvitations{repos.Invitations}, slowInvitationsTx{store: f.store},
		f.tokens, f.mailer, "http://localhost:5173", logger.Nop())
	uc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Create(ctx, req(tm.admin), dto.CreateInvitationRequest{Email: "race@example.com", Role: "agent"})
		}(i)
	}
	wg.Wait()

	created := 0
	for i, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict, "petición %d", i)
	}
	assert.Equal(t, 1, created)

	_, total, err := repos.Invitations.List(ctx, "", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	active, err := repos.Invitations.FindActiveByEmail(ctx, "race@example.com", fixedNow)
	require.NoError(t, err)
	assert.NotNil(t, active)
	assert.Len(t, f.mailer.sent, 1)
}
