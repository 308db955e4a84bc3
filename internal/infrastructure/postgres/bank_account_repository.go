package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

var _ repository.BankAccountRepository = (*BankAccountRepo)(nil)

const bankAccountColumns = `id, manager_id, bank_name, swift, iban, holder_name, address, identifier, created_at, updated_at`

// BankAccountRepo implementación del puerto BankAccountRepository sobre PostgreSQL.
type BankAccountRepo struct {
	db Querier
}

// NewBankAccountRepository construye el adaptador de persistencia para cuentas bancarias.
func NewBankAccountRepository(db Querier) *BankAccountRepo {
	return &BankAccountRepo{db: db}
}

// Create persiste una cuenta. El índice único (manager_id, identifier) devuelve ErrDuplicate.
func (r *BankAccountRepo) Create(ctx context.Context, a *entity.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.ManagerID, a.BankName, a.Swift, a.IBAN, a.HolderName, nullIfEmpty(a.Address),
		a.Identifier, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrDuplicate, "ya existe una cuenta con el identificador %q", a.Identifier)
		}
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *BankAccountRepo) GetByID(ctx context.Context, id string) (*entity.BankAccount, error) {
	a, err := scanBankAccount(r.db.QueryRow(ctx, `SELECT `+bankAccountColumns+` FROM bank_accounts WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return a, nil
}

// GetByIdentifier obtiene la cuenta del manager con ese identificador.
func (r *BankAccountRepo) GetByIdentifier(ctx context.Context, managerID, identifier string) (*entity.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE manager_id = $1 AND identifier = $2`
	a, err := scanBankAccount(r.db.QueryRow(ctx, query, managerID, identifier))
	if err != nil {
		return nil, fmt.Errorf("get bank account by identifier: %w", err)
	}
	return a, nil
}

// IdentifierTaken comprueba la unicidad (manager_id, identifier) excluyendo la propia cuenta.
func (r *BankAccountRepo) IdentifierTaken(ctx context.Context, managerID, identifier, excludeID string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM bank_accounts
		WHERE manager_id = $1 AND identifier = $2 AND ($3 = '' OR id::text <> $3))`
	var taken bool
	if err := r.db.QueryRow(ctx, query, managerID, identifier, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("check bank account identifier: %w", err)
	}
	return taken, nil
}

// Update actualiza una cuenta existente.
func (r *BankAccountRepo) Update(ctx context.Context, a *entity.BankAccount) error {
	query := `
		UPDATE bank_accounts SET bank_name = $2, swift = $3, iban = $4, holder_name = $5,
			address = $6, identifier = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query,
		a.ID, a.BankName, a.Swift, a.IBAN, a.HolderName, nullIfEmpty(a.Address), a.Identifier, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Errorf(domain.ErrDuplicate, "ya existe una cuenta con el identificador %q", a.Identifier)
		}
		return fmt.Errorf("update bank account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una cuenta por ID.
func (r *BankAccountRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM bank_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	return nil
}

// List cuentas visibles según el alcance (vacío = todas).
func (r *BankAccountRepo) List(ctx context.Context, scope access.BankAccountFilter) ([]*entity.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts
		WHERE ($1 = '' OR manager_id::text = $1)
		ORDER BY identifier`
	rows, err := r.db.Query(ctx, query, scope.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	defer rows.Close()
	var list []*entity.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank account: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// FirstByManager primera cuenta del manager por identificador (la que se imprime en el voucher).
func (r *BankAccountRepo) FirstByManager(ctx context.Context, managerID string) (*entity.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE manager_id = $1 ORDER BY identifier LIMIT 1`
	a, err := scanBankAccount(r.db.QueryRow(ctx, query, managerID))
	if err != nil {
		return nil, fmt.Errorf("first bank account: %w", err)
	}
	return a, nil
}

func scanBankAccount(row pgx.Row) (*entity.BankAccount, error) {
	var a entity.BankAccount
	err := row.Scan(&a.ID, &a.ManagerID, &a.BankName, &a.Swift, &a.IBAN, &a.HolderName, &a.Address,
		&a.Identifier, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
