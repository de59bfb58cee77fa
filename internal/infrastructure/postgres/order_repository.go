package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, customer_id, customer_name, customer_phone, status, source, payment_method, total_amount, comment, cancel_reason, metadata, created_at, updated_at, completed_at`

// OrderRepo pedidos y sus líneas sobre PostgreSQL (usable con pool o tx).
// Los documentos adjuntos (factura, acta) viven en la columna JSONB metadata.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido con sus líneas. Debe llamarse dentro de una transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, customer_name, customer_phone, status, source, payment_method, total_amount, comment, cancel_reason, metadata, created_at, updated_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		o.ID, nullIfEmpty(o.CustomerID), o.CustomerName, o.CustomerPhone, o.Status, o.Source, o.PaymentMethod,
		o.TotalAmount, o.Comment, o.CancelReason, o.Documents, o.CreatedAt, o.UpdatedAt, o.CompletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return orderLines.replace(ctx, r.q, o.ID, o.Items)
}

// GetByID obtiene un pedido con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate obtiene el pedido bloqueando su fila (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste estado, líneas, total, medio de pago, documentos y motivo de cancelación.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET status = $2, payment_method = $3, total_amount = $4, cancel_reason = $5,
			metadata = $6, updated_at = $7, completed_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		o.ID, o.Status, o.PaymentMethod, o.TotalAmount, o.CancelReason, o.Documents, o.UpdatedAt, o.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownOrder
	}
	return orderLines.replace(ctx, r.q, o.ID, o.Items)
}

// List filtra por estado, origen y cliente; ordena del más reciente al más antiguo.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter, limit, offset int) ([]*entity.Order, int, error) {
	where := []string{"TRUE"}
	var args []any
	pos := 1
	add := func(cond string, v any) {
		where = append(where, fmt.Sprintf(cond, pos))
		args = append(args, v)
		pos++
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Source != "" {
		add("source = $%d", f.Source)
	}
	if f.CustomerID != "" {
		add("customer_id = $%d", f.CustomerID)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		orderColumns, cond, pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list := make([]*entity.Order, 0)
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := orderLines.load(ctx, r.q, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, o := range list {
		o.Items = items[o.ID]
	}
	return list, total, nil
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := orderLines.load(ctx, r.q, []string{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var customerID *string
	err := row.Scan(
		&o.ID, &customerID, &o.CustomerName, &o.CustomerPhone, &o.Status, &o.Source, &o.PaymentMethod,
		&o.TotalAmount, &o.Comment, &o.CancelReason, &o.Documents, &o.CreatedAt, &o.UpdatedAt, &o.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	o.CustomerID = fromNull(customerID)
	return &o, nil
}
