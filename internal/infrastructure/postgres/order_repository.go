package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Booking-api/internal/domain"
	"github.com/jhoicas/Booking-api/internal/domain/entity"
	"github.com/jhoicas/Booking-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// Las fechas se leen como texto ISO (YYYY-MM-DD) con ::text.
const orderSelect = `
	SELECT o.id, o.agent_id, o.check_in::text, o.check_out::text, o.nights, o.property_name,
		o.property_address, o.room_type, o.meal_plan, o.city_travel, o.country_travel,
		o.reservation_number, o.client_name, o.client_email, o.client_phone, o.client_document,
		o.client_nationality, o.adults, o.children, o.children_ages, o.notes,
		o.official_price, o.tax_clean, o.discount, o.total_price,
		o.deposit_amount, o.deposit_status, o.deposit_due_date::text, o.deposit_paid_date::text, o.deposit_methods,
		o.balance_amount, o.balance_status, o.balance_due_date::text, o.balance_paid_date::text, o.balance_methods,
		o.status_order, o.created_at, o.updated_at
	FROM orders o`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
type OrderRepo struct {
	db Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(db Querier) *OrderRepo {
	return &OrderRepo{db: db}
}

const insertOrderSQL = `
	INSERT INTO orders (
		id, agent_id, check_in, check_out, nights, property_name, property_address, room_type, meal_plan,
		city_travel, country_travel, reservation_number, client_name, client_email, client_phone,
		client_document, client_nationality, adults, children, children_ages, notes,
		official_price, tax_clean, discount, total_price,
		deposit_amount, deposit_status, deposit_due_date, deposit_paid_date, deposit_methods,
		balance_amount, balance_status, balance_due_date, balance_paid_date, balance_methods,
		status_order, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38)`

// Create persiste un pedido nuevo.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.db.Exec(ctx, insertOrderSQL, insertOrderArgs(o)...)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByIDForUpdate igual que GetByID con FOR UPDATE (usar dentro de TxRunner).
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, orderSelect+` WHERE o.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return o, nil
}

// agent_id y created_at no figuran: no cambian tras el alta.
const updateOrderSQL = `
	UPDATE orders SET
		check_in = $2, check_out = $3, nights = $4, property_name = $5, property_address = $6,
		room_type = $7, meal_plan = $8, city_travel = $9, country_travel = $10,
		reservation_number = $11, client_name = $12, client_email = $13, client_phone = $14,
		client_document = $15, client_nationality = $16, adults = $17, children = $18,
		children_ages = $19, notes = $20,
		official_price = $21, tax_clean = $22, discount = $23, total_price = $24,
		deposit_amount = $25, deposit_status = $26, deposit_due_date = $27, deposit_paid_date = $28, deposit_methods = $29,
		balance_amount = $30, balance_status = $31, balance_due_date = $32, balance_paid_date = $33, balance_methods = $34,
		status_order = $35, updated_at = $36
	WHERE id = $1`

// Update reescribe todas las columnas mutables.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.db.Exec(ctx, updateOrderSQL, updateOrderArgs(o)...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un pedido por ID.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// List pedidos según alcance y filtros, con total para paginación.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderListFilter) ([]*entity.Order, int, error) {
	where := ` WHERE TRUE`
	args := []any{}
	if f.Scope.AgentID != "" {
		args = append(args, f.Scope.AgentID)
		where += fmt.Sprintf(` AND o.agent_id = $%d`, len(args))
	}
	if f.Scope.ManagerID != "" {
		args = append(args, f.Scope.ManagerID)
		where += fmt.Sprintf(` AND o.agent_id IN (SELECT u.id FROM users u WHERE u.manager_id = $%d)`, len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where += fmt.Sprintf(` AND o.status_order = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where += fmt.Sprintf(` AND (o.client_name ILIKE $%d OR o.reservation_number ILIKE $%d)`, len(args), len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := orderSelect + where + fmt.Sprintf(` ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, total, rows.Err()
}

// orderFields columnas mutables en el orden de insertOrderSQL y updateOrderSQL.
func orderFields(o *entity.Order) []any {
	childrenAges := o.ChildrenAges
	if childrenAges == nil {
		childrenAges = []int{}
	}
	methods := func(m []string) []string {
		if m == nil {
			return []string{}
		}
		return m
	}
	return []any{
		nullIfEmpty(o.CheckIn), nullIfEmpty(o.CheckOut), o.Nights, o.PropertyName,
		o.PropertyAddress, o.RoomType, o.MealPlan, o.CityTravel, o.CountryTravel,
		o.ReservationNumber, o.ClientName, o.ClientEmail, o.ClientPhone, o.ClientDocument,
		o.ClientNationality, o.Adults, o.Children, childrenAges, o.Notes,
		o.OfficialPrice, o.TaxClean, o.Discount, o.TotalPrice,
		o.Deposit.Amount, string(o.Deposit.Status), nullIfEmpty(o.Deposit.DueDate), nullIfEmpty(o.Deposit.PaidDate), methods(o.Deposit.PaymentMethods),
		o.Balance.Amount, string(o.Balance.Status), nullIfEmpty(o.Balance.DueDate), nullIfEmpty(o.Balance.PaidDate), methods(o.Balance.PaymentMethods),
		string(o.StatusOrder),
	}
}

func insertOrderArgs(o *entity.Order) []any {
	args := append([]any{o.ID, o.AgentID}, orderFields(o)...)
	return append(args, o.CreatedAt, o.UpdatedAt)
}

func updateOrderArgs(o *entity.Order) []any {
	args := append([]any{o.ID}, orderFields(o)...)
	return append(args, o.UpdatedAt)
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o                             entity.Order
		depositStatus, balanceStatus string
		statusOrder                   string
	)
	err := row.Scan(
		&o.ID, &o.AgentID, &o.CheckIn, &o.CheckOut, &o.Nights, &o.PropertyName,
		&o.PropertyAddress, &o.RoomType, &o.MealPlan, &o.CityTravel, &o.CountryTravel,
		&o.ReservationNumber, &o.ClientName, &o.ClientEmail, &o.ClientPhone, &o.ClientDocument,
		&o.ClientNationality, &o.Adults, &o.Children, &o.ChildrenAges, &o.Notes,
		&o.OfficialPrice, &o.TaxClean, &o.Discount, &o.TotalPrice,
		&o.Deposit.Amount, &depositStatus, &o.Deposit.DueDate, &o.Deposit.PaidDate, &o.Deposit.PaymentMethods,
		&o.Balance.Amount, &balanceStatus, &o.Balance.DueDate, &o.Balance.PaidDate, &o.Balance.PaymentMethods,
		&statusOrder, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	o.Deposit.Status = entity.PaymentStatus(depositStatus)
	o.Balance.Status = entity.PaymentStatus(balanceStatus)
	o.StatusOrder = entity.OrderStatus(statusOrder)
	return &o, nil
}
