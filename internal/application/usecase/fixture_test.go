package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/application/auth"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/orderpolicy"
	"github.com/jhoicas/Booking-api/internal/infrastructure/memtest"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

const today = "2026-10-19"

// recordingMailer guarda los correos en lugar de enviarlos.
type recordingMailer struct {
	mu   sync.Mutex
	sent []InvitationMail
	err  error
}

func (m *recordingMailer) SendInvitation(_ context.Context, mail InvitationMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mail)
	return m.err
}

type fixture struct {
	store  *memtest.Store
	mailer *recordingMailer
	tokens *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{
		store:  memtest.NewStore(),
		mailer: &recordingMailer{},
		tokens: auth.NewTokenIssuer(auth.JWTConfig{Secret: "secreto-de-prueba", Issuer: "booking-api"}),
	}
}

func (f *fixture) seed(t *testing.T, role entity.Role, email string, managerID *string) *entity.User {
	t.Helper()
	u := entity.NewUser(entity.NewUserParams{
		Role:         role,
		Email:        email,
		PasswordHash: "$2a$10$hash-no-usado-en-estas-pruebas",
		FirstName:    "Nombre",
		LastName:     string(role),
		ManagerID:    managerID,
	}, fixedNow)
	require.NoError(t, f.store.Repositories().Users.Create(context.Background(), u))
	return u
}

// team admin, dos managers y un agente por manager.
type team struct {
	admin, managerM, managerN, agentA, agentB *entity.User
}

func (f *fixture) team(t *testing.T) team {
	t.Helper()
	tm := team{
		admin:    f.seed(t, entity.RoleAdmin, "admin@example.com", nil),
		managerM: f.seed(t, entity.RoleManager, "m@example.com", nil),
		managerN: f.seed(t, entity.RoleManager, "n@example.com", nil),
	}
	tm.agentA = f.seed(t, entity.RoleAgent, "a@example.com", &tm.managerM.ID)
	tm.agentB = f.seed(t, entity.RoleAgent, "b@example.com", &tm.managerN.ID)
	return tm
}

func (f *fixture) orders(policy orderpolicy.StatusPolicy) *OrderUseCase {
	repos := f.store.Repositories()
	uc := NewOrderUseCase(repos.Orders, repos.Users, f.store, orderpolicy.NewAuthorizer(policy), logger.Nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) invitations() *InvitationUseCase {
	repos := f.store.Repositories()
	uc := NewInvitationUseCase(repos.Users, repos.Invitations, f.store, f.tokens, f.mailer, "http://localhost:5173/", logger.Nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) agents() *AgentUseCase {
	uc := NewAgentUseCase(f.store.Repositories().Users)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (f *fixture) bankAccounts() *BankAccountUseCase {
	repos := f.store.Repositories()
	uc := NewBankAccountUseCase(repos.BankAccounts, repos.Users)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func req(u *entity.User) access.Requester { return access.FromUser(u) }

func ptr[T any](v T) *T { return &v }
