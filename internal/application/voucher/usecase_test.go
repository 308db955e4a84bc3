package voucher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/infrastructure/memtest"
	"github.com/jhoicas/Booking-api/pkg/logger"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type fakeGenerator struct {
	last *Document
	err  error
}

func (g *fakeGenerator) Generate(doc Document) ([]byte, error) {
	g.last = &doc
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.3 fake"), nil
}

type env struct {
	store   *memtest.Store
	gen     *fakeGenerator
	uc      *UseCase
	manager *entity.User
	agent   *entity.User
	order   *entity.Order
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memtest.NewStore()
	repos := store.Repositories()

	manager := entity.NewUser(entity.NewUserParams{Role: entity.RoleManager, Email: "m@example.com"}, fixedNow)
	require.NoError(t, repos.Users.Create(ctx, manager))
	agent := entity.NewUser(entity.NewUserParams{Role: entity.RoleAgent, Email: "a@example.com", ManagerID: &manager.ID}, fixedNow)
	require.NoError(t, repos.Users.Create(ctx, agent))

	checkIn, checkOut := "2026-11-02", "2026-11-09"
	order := entity.NewOrder(agent.ID, entity.NewOrderParams{
		Details: entity.TripDetails{
			CheckIn:           &checkIn,
			CheckOut:          &checkOut,
			Nights:            7,
			PropertyName:      "Hotel Mirador",
			CityTravel:        "Málaga",
			CountryTravel:     "España",
			ReservationNumber: "RES 2026/001",
			ClientName:        "Lucía Gómez",
		},
		OfficialPrice: decimal.NewFromInt(1000),
	}, fixedNow)
	order.StatusOrder = entity.OrderApproved
	require.NoError(t, repos.Orders.Create(ctx, order))

	gen := &fakeGenerator{}
	uc := NewUseCase(repos.Orders, repos.Users, repos.BankAccounts, gen, Agency{Name: "Viajes Sol"}, logger.Nop())
	uc.now = func() time.Time { return fixedNow }
	return &env{store: store, gen: gen, uc: uc, manager: manager, agent: agent, order: order}
}

func (e *env) setStatus(t *testing.T, s entity.OrderStatus) {
	t.Helper()
	e.order.StatusOrder = s
	require.NoError(t, e.store.Repositories().Orders.Update(context.Background(), e.order))
}

func TestDownload_PedidoAprobado_IncluyePrimeraCuenta(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	accounts := e.store.Repositories().BankAccounts
	require.NoError(t, accounts.Create(ctx, entity.NewBankAccount(e.manager.ID, entity.NewBankAccountParams{Identifier: "USD", IBAN: "ES00"}, fixedNow)))
	require.NoError(t, accounts.Create(ctx, entity.NewBankAccount(e.manager.ID, entity.NewBankAccountParams{Identifier: "EUR", IBAN: "ES11"}, fixedNow)))

	file, err := e.uc.Download(ctx, access.FromUser(e.agent), e.order.ID)
	require.NoError(t, err)
	assert.Equal(t, "voucher-RES-2026-001.pdf", file.Name)
	assert.Equal(t, "%PDF-1.3 fake", string(file.Content))

	require.NotNil(t, e.gen.last)
	require.NotNil(t, e.gen.last.Account)
	assert.Equal(t, "EUR", e.gen.last.Account.Identifier, "la primera por identificador")
	assert.Equal(t, e.agent.ID, e.gen.last.Agent.ID)
	assert.Equal(t, "Viajes Sol", e.gen.last.Agency.Name)
	assert.Equal(t, fixedNow, e.gen.last.GeneratedAt)
}

func TestDownload_SinCuentas_GeneraSinBloqueBancario(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Download(context.Background(), access.FromUser(e.manager), e.order.ID)
	require.NoError(t, err)
	assert.Nil(t, e.gen.last.Account)
}

func TestDownload_PedidoNoAprobado_Forbidden(t *testing.T) {
	for _, s := range []entity.OrderStatus{entity.OrderPending, entity.OrderRejected} {
		e := newEnv(t)
		e.setStatus(t, s)
		_, err := e.uc.Download(context.Background(), access.FromUser(e.agent), e.order.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden, string(s))
		assert.Nil(t, e.gen.last)
	}
}

func TestDownload_FueraDeAlcance_Forbidden(t *testing.T) {
	e := newEnv(t)
	other := entity.NewUser(entity.NewUserParams{Role: entity.RoleManager, Email: "n@example.com"}, fixedNow)
	require.NoError(t, e.store.Repositories().Users.Create(context.Background(), other))

	_, err := e.uc.Download(context.Background(), access.FromUser(other), e.order.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.uc.Download(context.Background(), access.FromUser(e.agent), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownload_FaltanCampos_InvalidInputConDetalle(t *testing.T) {
	e := newEnv(t)
	e.order.PropertyName = ""
	e.order.CheckIn = nil
	require.NoError(t, e.store.Repositories().Orders.Update(context.Background(), e.order))

	_, err := e.uc.Download(context.Background(), access.FromUser(e.agent), e.order.ID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	fields := []string{}
	for _, d := range de.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"checkIn", "propertyName"}, fields)
}

func TestDownload_FalloDelGenerador_ErrRendering(t *testing.T) {
	e := newEnv(t)
	e.gen.err = errors.New("fuente no encontrada")

	_, err := e.uc.Download(context.Background(), access.FromUser(e.agent), e.order.ID)
	assert.ErrorIs(t, err, domain.ErrRendering)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "voucher-ABC123.pdf", FileName("ABC123"))
	assert.Equal(t, "voucher-reserva.pdf", FileName("  "))
	assert.Equal(t, "voucher-a-b.pdf", FileName("a/\"b"))
}
