package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

const invitationColumns = `id, email, role, invited_by, token, expires_at, used, created_at`

// InvitationRepo implementación del puerto InvitationRepository sobre PostgreSQL.
type InvitationRepo struct {
	db Querier
}

// NewInvitationRepository construye el adaptador de persistencia para invitaciones.
func NewInvitationRepository(db Querier) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// Create persiste una invitación.
func (r *InvitationRepo) Create(ctx context.Context, inv *entity.Invitation) error {
	query := `
		INSERT INTO invitations (` + invitationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		inv.ID, inv.Email, string(inv.Role), inv.InvitedBy, inv.Token, inv.ExpiresAt, inv.Used, inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	return nil
}

// GetByID obtiene una invitación por ID.
func (r *InvitationRepo) GetByID(ctx context.Context, id string) (*entity.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// GetByToken obtiene una invitación por token.
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*entity.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token = $1`, token))
	if err != nil {
		return nil, fmt.Errorf("get invitation by token: %w", err)
	}
	return inv, nil
}

// GetByTokenForUpdate igual que GetByToken pero con FOR UPDATE (usar dentro de TxRunner).
func (r *InvitationRepo) GetByTokenForUpdate(ctx context.Context, token string) (*entity.Invitation, error) {
	inv, err := scanInvitation(r.db.QueryRow(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE token = $1 FOR UPDATE`, token))
	if err != nil {
		return nil, fmt.Errorf("lock invitation: %w", err)
	}
	return inv, nil
}

// FindActiveByEmail invitación sin usar y con expires_at >= now para el email.
func (r *InvitationRepo) FindActiveByEmail(ctx context.Context, email string, now time.Time) (*entity.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations
		WHERE email = $1 AND used = FALSE AND expires_at >= $2
		ORDER BY created_at DESC LIMIT 1`
	inv, err := scanInvitation(r.db.QueryRow(ctx, query, entity.NormalizeEmail(email), now))
	if err != nil {
		return nil, fmt.Errorf("find active invitation: %w", err)
	}
	return inv, nil
}

// MarkUsed marca la invitación como consumida.
func (r *InvitationRepo) MarkUsed(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE invitations SET used = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la invitación (sin borrado lógico).
func (r *InvitationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	return nil
}

// List lista invitaciones, opcionalmente solo las emitidas por invitedBy.
func (r *InvitationRepo) List(ctx context.Context, invitedBy string, limit, offset int) ([]*entity.Invitation, int, error) {
	const where = ` WHERE ($1 = '' OR invited_by::text = $1)`
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invitations`+where, invitedBy).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invitations: %w", err)
	}

	query := `SELECT ` + invitationColumns + ` FROM invitations` + where + `
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, invitedBy, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invitation: %w", err)
		}
		list = append(list, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func scanInvitation(row pgx.Row) (*entity.Invitation, error) {
	var (
		inv  entity.Invitation
		role string
	)
	err := row.Scan(&inv.ID, &inv.Email, &role, &inv.InvitedBy, &inv.Token, &inv.ExpiresAt, &inv.Used, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	inv.Role = entity.Role(role)
	return &inv, nil
}
