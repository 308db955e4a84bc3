package auth

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

// AuthUseCase casos de uso de autenticación y perfil propio.
type AuthUseCase struct {
	users  repository.UserRepository
	tx     repository.TxRunner
	tokens *TokenIssuer
	now    func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, tx repository.TxRunner, tokens *TokenIssuer) *AuthUseCase {
	return &AuthUseCase{users: users, tx: tx, tokens: tokens, now: time.Now}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// Credenciales incorrectas y cuenta desactivada responden igual (401).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckPassword(user.PasswordHash, in.Password) {
		return nil, domain.Errorf(domain.ErrUnauthorized, "credenciales inválidas")
	}
	if !user.IsActive {
		return nil, domain.Errorf(domain.ErrUnauthorized, "la cuenta está desactivada")
	}
	return uc.session(user)
}

// RegisterFirstAdmin crea el administrador inicial; falla si ya existe algún admin.
// La comprobación y el alta van en una transacción bajo el candado LockFirstAdmin.
func (uc *AuthUseCase) RegisterFirstAdmin(ctx context.Context, in dto.RegisterFirstAdminRequest) (*dto.AuthResponse, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := entity.NewUser(entity.NewUserParams{
		Role:         entity.RoleAdmin,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
	}, uc.now())

	err = uc.tx.Run(ctx, func(tx repository.Repositories) error {
		if err := tx.Locks.Acquire(ctx, repository.LockFirstAdmin); err != nil {
			return err
		}
		exists, err := tx.Users.ExistsByRole(ctx, entity.RoleAdmin)
		if err != nil {
			return err
		}
		if exists {
			return domain.Errorf(domain.ErrInvalidInput, "ya existe un administrador")
		}
		return tx.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return uc.session(user)
}

// Profile devuelve el usuario autenticado.
func (uc *AuthUseCase) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// UpdateProfile cambia nombre, apellido y teléfono del propio usuario.
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	user.UpdatedAt = uc.now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword exige la contraseña actual; si no coincide responde 400.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.load(ctx, userID)
	if err != nil {
		return err
	}
	if !CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return domain.Errorf(domain.ErrInvalidInput, "la contraseña actual no es correcta")
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = uc.now()
	return uc.users.Update(ctx, user)
}

func (uc *AuthUseCase) load(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (uc *AuthUseCase) session(user *entity.User) (*dto.AuthResponse, error) {
	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *ToUserResponse(user)}, nil
}

// ToUserResponse convierte la entidad en la salida pública (sin hash).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Role:      u.Role.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		ManagerID: u.ManagerID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
