package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Booking-api/internal/application/dto"
	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

// BankAccountUseCase cuentas de destino de pagos de cada manager.
type BankAccountUseCase struct {
	accounts repository.BankAccountRepository
	users    repository.UserRepository
	now      func() time.Time
}

// NewBankAccountUseCase construye el caso de uso.
func NewBankAccountUseCase(accounts repository.BankAccountRepository, users repository.UserRepository) *BankAccountUseCase {
	return &BankAccountUseCase{accounts: accounts, users: users, now: time.Now}
}

// Create crea una cuenta del manager autenticado. El identificador no puede repetirse para ese manager.
func (uc *BankAccountUseCase) Create(ctx context.Context, r access.Requester, in dto.CreateBankAccountRequest) (*dto.BankAccountResponse, error) {
	if r.Role != entity.RoleManager {
		return nil, domain.Errorf(domain.ErrForbidden, "solo un manager puede registrar cuentas bancarias")
	}
	account := entity.NewBankAccount(r.ID, entity.NewBankAccountParams{
		BankName:   in.BankName,
		Swift:      in.Swift,
		IBAN:       in.IBAN,
		HolderName: in.HolderName,
		Address:    trimmed(in.Address),
		Identifier: in.Identifier,
	}, uc.now())
	if err := uc.ensureIdentifierFree(ctx, account); err != nil {
		return nil, err
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return toBankAccountResponse(account), nil
}

// Update modifica una cuenta propia.
func (uc *BankAccountUseCase) Update(ctx context.Context, r access.Requester, id string, in dto.UpdateBankAccountRequest) (*dto.BankAccountResponse, error) {
	account, err := uc.owned(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if in.BankName != nil {
		account.BankName = strings.TrimSpace(*in.BankName)
	}
	if in.Swift != nil {
		account.Swift = entity.NormalizeBankCode(*in.Swift)
	}
	if in.IBAN != nil {
		account.IBAN = entity.NormalizeBankCode(*in.IBAN)
	}
	if in.HolderName != nil {
		account.HolderName = strings.TrimSpace(*in.HolderName)
	}
	if in.Address != nil {
		account.Address = trimmed(in.Address)
	}
	if in.Identifier != nil {
		account.Identifier = strings.TrimSpace(*in.Identifier)
	}
	if err := uc.ensureIdentifierFree(ctx, account); err != nil {
		return nil, err
	}
	account.UpdatedAt = uc.now()
	if err := uc.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return toBankAccountResponse(account), nil
}

// Delete elimina una cuenta propia.
func (uc *BankAccountUseCase) Delete(ctx context.Context, r access.Requester, id string) error {
	if _, err := uc.owned(ctx, r, id); err != nil {
		return err
	}
	return uc.accounts.Delete(ctx, id)
}

// List cuentas visibles: admin todas, manager las suyas, agente las de su manager.
func (uc *BankAccountUseCase) List(ctx context.Context, r access.Requester) (*dto.BankAccountListResponse, error) {
	r, err := resolveRequester(ctx, uc.users, r)
	if err != nil {
		return nil, err
	}
	scope, err := access.BankAccountScope(r)
	if err != nil {
		return nil, err
	}
	list, err := uc.accounts.List(ctx, scope)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BankAccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toBankAccountResponse(a))
	}
	return &dto.BankAccountListResponse{Items: items}, nil
}

// GetByIdentifier busca una cuenta por identificador dentro del alcance.
// Un admin no tiene manager implícito y debe indicar managerID.
func (uc *BankAccountUseCase) GetByIdentifier(ctx context.Context, r access.Requester, identifier, managerID string) (*dto.BankAccountResponse, error) {
	r, err := resolveRequester(ctx, uc.users, r)
	if err != nil {
		return nil, err
	}
	scope, err := access.BankAccountScope(r)
	if err != nil {
		return nil, err
	}
	owner := scope.ManagerID
	if owner == "" {
		owner = managerID
	}
	if owner == "" {
		return nil, domain.ValidationError("manager_id es obligatorio para el administrador",
			domain.FieldError{Field: "manager_id", Message: "requerido"})
	}
	account, err := uc.accounts.GetByIdentifier(ctx, owner, strings.TrimSpace(identifier))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "cuenta bancaria %q no encontrada", identifier)
	}
	return toBankAccountResponse(account), nil
}

func (uc *BankAccountUseCase) owned(ctx context.Context, r access.Requester, id string) (*entity.BankAccount, error) {
	if r.Role != entity.RoleManager {
		return nil, domain.Errorf(domain.ErrForbidden, "solo el manager propietario puede modificar la cuenta")
	}
	account, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.Errorf(domain.ErrNotFound, "cuenta bancaria no encontrada")
	}
	if !account.OwnedBy(r.ID) {
		return nil, domain.Errorf(domain.ErrForbidden, "la cuenta pertenece a otro manager")
	}
	return account, nil
}

func (uc *BankAccountUseCase) ensureIdentifierFree(ctx context.Context, a *entity.BankAccount) error {
	taken, err := uc.accounts.IdentifierTaken(ctx, a.ManagerID, a.Identifier, a.ID)
	if err != nil {
		return err
	}
	if taken {
		return domain.Errorf(domain.ErrConflict, "ya existe una cuenta con el identificador %q", a.Identifier)
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func toBankAccountResponse(a *entity.BankAccount) *dto.BankAccountResponse {
	return &dto.BankAccountResponse{
		ID:         a.ID,
		ManagerID:  a.ManagerID,
		BankName:   a.BankName,
		Swift:      a.Swift,
		IBAN:       a.IBAN,
		HolderName: a.HolderName,
		Address:    a.Address,
		Identifier: a.Identifier,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
