package auth

import (
	"context"
	"fmt"
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
	"github.com/jhoicas/Booking-api/pkg/jwt"
)

const testSecret = "secreto-de-prueba"

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newAuth(t *testing.T) (*AuthUseCase, *memtest.Store) {
	t.Helper()
	store := memtest.NewStore()
	uc := NewAuthUseCase(store.Repositories().Users, store, NewTokenIssuer(JWTConfig{Secret: testSecret, Issuer: "booking-api"}))
	uc.now = func() time.Time { return fixedNow }
	return uc, store
}

func seedUser(t *testing.T, store *memtest.Store, role entity.Role, email, password string) *entity.User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	u := entity.NewUser(entity.NewUserParams{Role: role, Email: email, PasswordHash: hash, FirstName: "Ana", LastName: "Pérez"}, fixedNow)
	require.NoError(t, store.Repositories().Users.Create(context.Background(), u))
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialesCorrectas_DevuelveTokenConRol(t *testing.T) {
	uc, store := newAuth(t)
	u := seedUser(t, store, entity.RoleManager, "marta@example.com", "password123")

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: "  MARTA@example.com ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, out.User.ID)
	assert.Equal(t, "manager", out.User.Role)

	id, role, err := jwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, "manager", role)
}

func TestLogin_PasswordIncorrecta_Unauthorized(t *testing.T) {
	uc, store := newAuth(t)
	seedUser(t, store, entity.RoleAgent, "a@example.com", "password123")

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@example.com", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaDesactivada_Unauthorized(t *testing.T) {
	uc, store := newAuth(t)
	u := seedUser(t, store, entity.RoleAgent, "a@example.com", "password123")
	u.IsActive = false
	require.NoError(t, store.Repositories().Users.Update(context.Background(), u))

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Primer admin
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterFirstAdmin_SoloUnaVez(t *testing.T) {
	uc, _ := newAuth(t)
	in := dto.RegisterFirstAdminRequest{Email: "root@example.com", Password: "password123", FirstName: "Root", LastName: "Admin"}

	out, err := uc.RegisterFirstAdmin(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "admin", out.User.Role)
	assert.Nil(t, out.User.ManagerID)
	assert.NotEmpty(t, out.Token)

	in.Email = "otro@example.com"
	_, err = uc.RegisterFirstAdmin(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// slowUsers ensancha la ventana entre la comprobación de admin y el alta.
type slowUsers struct {
	repository.UserRepository
}

func (s slowUsers) ExistsByRole(ctx context.Context, role entity.Role) (bool, error) {
	time.Sleep(5 * time.Millisecond)
	return s.UserRepository.ExistsByRole(ctx, role)
}

type slowUsersTx struct {
	store *memtest.Store
}

func (s slowUsersTx) Run(ctx context.Context, fn func(tx repository.Repositories) error) error {
	return s.store.Run(ctx, func(tx repository.Repositories) error {
		tx.Users = slowUsers{tx.Users}
		return fn(tx)
	})
}

func TestRegisterFirstAdmin_Concurrente_SoloUnAdmin(t *testing.T) {
	store := memtest.NewStore()
	uc := NewAuthUseCase(store.Repositories().Users, slowUsersTx{store: store}, NewTokenIssuer(JWTConfig{Secret: testSecret, Issuer: "booking-api"}))
	uc.now = func() time.Time { return fixedNow }

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.RegisterFirstAdmin(context.Background(), dto.RegisterFirstAdminRequest{
				Email:     fmt.Sprintf("root%d@example.com", i),
				Password:  "password123",
				FirstName: "Root",
				LastName:  "Admin",
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for i, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "petición %d", i)
	}
	assert.Equal(t, 1, created)

	admins := 0
	for i := 0; i < n; i++ {
		u, err := store.Repositories().Users.GetByEmail(context.Background(), fmt.Sprintf("root%d@example.com", i))
		require.NoError(t, err)
		if u != nil {
			admins++
		}
	}
	assert.Equal(t, 1, admins)
}

// ──────────────────────────────────────────────────────────────────────────────
// Perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateProfile_SoloCamposEnviados(t *testing.T) {
	uc, store := newAuth(t)
	u := seedUser(t, store, entity.RoleAgent, "a@example.com", "password123")

	phone := " 600 111 222 "
	out, err := uc.UpdateProfile(context.Background(), u.ID, dto.UpdateProfileRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "600 111 222", out.Phone)
	assert.Equal(t, "Ana", out.FirstName)
	assert.Equal(t, "a@example.com", out.Email)
}

func TestProfile_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuth(t)
	_, err := uc.Profile(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	uc, store := newAuth(t)
	u := seedUser(t, store, entity.RoleAgent, "a@example.com", "password123")
	ctx := context.Background()

	err := uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "incorrecta", NewPassword: "nueva-clave-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "nueva-clave-1"}))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@example.com", Password: "nueva-clave-1"})
	assert.NoError(t, err)
}

func TestHashPassword_NoGuardaTextoPlano(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}
