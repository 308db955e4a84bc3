// Package memtest implementa los puertos de repositorio en memoria como doble de pruebas.
// Solo lo importan ficheros _test.go (casos de uso y HTTP); no se cablea en cmd/ y no
// persiste nada entre procesos.
package memtest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/access"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

var (
	_ repository.TxRunner              = (*Store)(nil)
	_ repository.UserRepository        = (*userRepo)(nil)
	_ repository.InvitationRepository  = (*invitationRepo)(nil)
	_ repository.OrderRepository       = (*orderRepo)(nil)
	_ repository.BankAccountRepository = (*bankAccountRepo)(nil)
	_ repository.LockRepository        = lockRepo{}
)

// Store datos en memoria protegidos por mutex. Run serializa las transacciones
// y restaura el estado previo si fn devuelve error.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users       map[string]*entity.User
	invitations map[string]*entity.Invitation
	orders      map[string]*entity.Order
	accounts    map[string]*entity.BankAccount
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		users:       map[string]*entity.User{},
		invitations: map[string]*entity.Invitation{},
		orders:      map[string]*entity.Order{},
		accounts:    map[string]*entity.BankAccount{},
	}
}

// Repositories los repositorios sobre este almacén.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:        &userRepo{s: s},
		Invitations:  &invitationRepo{s: s},
		Orders:       &orderRepo{s: s},
		BankAccounts: &bankAccountRepo{s: s},
		Locks:        lockRepo{},
	}
}

// lockRepo no bloquea: Run ya serializa todas las transacciones con txMu.
type lockRepo struct{}

func (lockRepo) Acquire(context.Context, string) error { return nil }

// Run ejecuta fn con rollback en memoria.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	saved := s.snapshot()
	if err := fn(s.Repositories()); err != nil {
		s.restore(saved)
		return err
	}
	return nil
}

type snapshot struct {
	users       map[string]*entity.User
	invitations map[string]*entity.Invitation
	orders      map[string]*entity.Order
	accounts    map[string]*entity.BankAccount
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		users:       make(map[string]*entity.User, len(s.users)),
		invitations: make(map[string]*entity.Invitation, len(s.invitations)),
		orders:      make(map[string]*entity.Order, len(s.orders)),
		accounts:    make(map[string]*entity.BankAccount, len(s.accounts)),
	}
	for k, v := range s.users {
		snap.users[k] = cloneUser(v)
	}
	for k, v := range s.invitations {
		c := *v
		snap.invitations[k] = &c
	}
	for k, v := range s.orders {
		snap.orders[k] = v.Clone()
	}
	for k, v := range s.accounts {
		snap.accounts[k] = cloneAccount(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.invitations = snap.invitations
	s.orders = snap.orders
	s.accounts = snap.accounts
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func cloneUser(u *entity.User) *entity.User {
	c := *u
	if u.ManagerID != nil {
		m := *u.ManagerID
		c.ManagerID = &m
	}
	return &c
}

func (r *userRepo) emailTaken(email, excludeID string) bool {
	for _, u := range r.s.users {
		if u.Email == email && u.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = entity.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrEmailAlreadyExists
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *userRepo) ExistsByRole(_ context.Context, role entity.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepo) ListAgents(_ context.Context, f repository.AgentListFilter) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.User
	for _, u := range r.s.users {
		if u.Role != entity.RoleAgent {
			continue
		}
		if f.Scope.ManagerID != "" && (u.ManagerID == nil || *u.ManagerID != f.Scope.ManagerID) {
			continue
		}
		if f.Active != nil && u.IsActive != *f.Active {
			continue
		}
		list = append(list, cloneUser(u))
	}
	sort.Slice(list, func(i, j int) bool { return newerFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if a.Equal(b) {
		return idA < idB
	}
	return a.After(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invitaciones
// ──────────────────────────────────────────────────────────────────────────────

type invitationRepo struct{ s *Store }

func (r *invitationRepo) Create(_ context.Context, inv *entity.Invitation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.invitations {
		if other.Token == inv.Token {
			return domain.ErrDuplicate
		}
	}
	c := *inv
	r.s.invitations[inv.ID] = &c
	return nil
}

func (r *invitationRepo) GetByID(_ context.Context, id string) (*entity.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[id]
	if !ok {
		return nil, nil
	}
	c := *inv
	return &c, nil
}

func (r *invitationRepo) GetByToken(_ context.Context, token string) (*entity.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.invitations {
		if inv.Token == token {
			c := *inv
			return &c, nil
		}
	}
	return nil, nil
}

func (r *invitationRepo) GetByTokenForUpdate(ctx context.Context, token string) (*entity.Invitation, error) {
	return r.GetByToken(ctx, token)
}

func (r *invitationRepo) FindActiveByEmail(_ context.Context, email string, now time.Time) (*entity.Invitation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = entity.NormalizeEmail(email)
	var found *entity.Invitation
	for _, inv := range r.s.invitations {
		if inv.Email != email || !inv.Active(now) {
			continue
		}
		if found == nil || inv.CreatedAt.After(found.CreatedAt) {
			found = inv
		}
	}
	if found == nil {
		return nil, nil
	}
	c := *found
	return &c, nil
}

func (r *invitationRepo) MarkUsed(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invitations[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Used = true
	return nil
}

func (r *invitationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invitations, id)
	return nil
}

func (r *invitationRepo) List(_ context.Context, invitedBy string, limit, offset int) ([]*entity.Invitation, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Invitation
	for _, inv := range r.s.invitations {
		if invitedBy != "" && inv.InvitedBy != invitedBy {
			continue
		}
		c := *inv
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool { return newerFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return page(list, limit, offset), len(list), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.orders[o.ID] = o.Clone()
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (r *orderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := o.Clone()
	next.AgentID = current.AgentID
	next.CreatedAt = current.CreatedAt
	r.s.orders[o.ID] = next
	return nil
}

func (r *orderRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.orders, id)
	return nil
}

func (r *orderRepo) List(_ context.Context, f repository.OrderListFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(f.Search)
	var list []*entity.Order
	for _, o := range r.s.orders {
		if !r.visible(f.Scope, o) {
			continue
		}
		if f.Status != "" && o.StatusOrder != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.ClientName), search) &&
			!strings.Contains(strings.ToLower(o.ReservationNumber), search) {
			continue
		}
		list = append(list, o.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return newerFirst(list[i].CreatedAt, list[j].CreatedAt, list[i].ID, list[j].ID) })
	return page(list, f.Limit, f.Offset), len(list), nil
}

func (r *orderRepo) visible(scope access.OrderFilter, o *entity.Order) bool {
	if scope.AgentID != "" && o.AgentID != scope.AgentID {
		return false
	}
	if scope.ManagerID != "" {
		agent, ok := r.s.users[o.AgentID]
		if !ok || agent.ManagerID == nil || *agent.ManagerID != scope.ManagerID {
			return false
		}
	}
	return true
}

// ──────────────────────────────────────────────────────────────────────────────
// Cuentas bancarias
// ──────────────────────────────────────────────────────────────────────────────

type bankAccountRepo struct{ s *Store }

func cloneAccount(a *entity.BankAccount) *entity.BankAccount {
	c := *a
	if a.Address != nil {
		addr := *a.Address
		c.Address = &addr
	}
	return &c
}

func (r *bankAccountRepo) taken(managerID, identifier, excludeID string) bool {
	for _, a := range r.s.accounts {
		if a.ManagerID == managerID && a.Identifier == identifier && a.ID != excludeID {
			return true
		}
	}
	return false
}

func (r *bankAccountRepo) Create(_ context.Context, a *entity.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.taken(a.ManagerID, a.Identifier, a.ID) {
		return domain.Errorf(domain.ErrDuplicate, "ya existe una cuenta con el identificador %q", a.Identifier)
	}
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *bankAccountRepo) GetByID(_ context.Context, id string) (*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, nil
	}
	return cloneAccount(a), nil
}

func (r *bankAccountRepo) GetByIdentifier(_ context.Context, managerID, identifier string) (*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.ManagerID == managerID && a.Identifier == identifier {
			return cloneAccount(a), nil
		}
	}
	return nil, nil
}

func (r *bankAccountRepo) IdentifierTaken(_ context.Context, managerID, identifier, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.taken(managerID, identifier, excludeID), nil
}

func (r *bankAccountRepo) Update(_ context.Context, a *entity.BankAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taken(a.ManagerID, a.Identifier, a.ID) {
		return domain.Errorf(domain.ErrDuplicate, "ya existe una cuenta con el identificador %q", a.Identifier)
	}
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *bankAccountRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.accounts, id)
	return nil
}

func (r *bankAccountRepo) List(_ context.Context, scope access.BankAccountFilter) ([]*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.sorted(scope.ManagerID), nil
}

func (r *bankAccountRepo) FirstByManager(_ context.Context, managerID string) (*entity.BankAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := r.sorted(managerID)
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *bankAccountRepo) sorted(managerID string) []*entity.BankAccount {
	var list []*entity.BankAccount
	for _, a := range r.s.accounts {
		if managerID != "" && a.ManagerID != managerID {
			continue
		}
		list = append(list, cloneAccount(a))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Identifier == list[j].Identifier {
			return list[i].ManagerID < list[j].ManagerID
		}
		return list[i].Identifier < list[j].Identifier
	})
	return list
}
