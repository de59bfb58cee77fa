package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

const customerColumns = `id, name, phone, total_orders, total_spent, last_order_at, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

// Create persiste un cliente. Teléfono duplicado devuelve domain.ErrDuplicate.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, total_orders, total_spent, last_order_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Phone, c.TotalOrders, c.TotalSpent, c.LastOrderAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetByPhone obtiene un cliente por teléfono normalizado.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return r.getOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone)
}

// Update persiste nombre y estadísticas de compra.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	query := `
		UPDATE customers SET name = $2, total_orders = $3, total_spent = $4, last_order_at = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, c.ID, c.Name, c.TotalOrders, c.TotalSpent, c.LastOrderAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateOrGet inserta con ON CONFLICT (phone) DO NOTHING y relee por teléfono.
// Si otra transacción insertó el mismo teléfono, el INSERT espera a que confirme y el SELECT ve su fila.
func (r *CustomerRepo) CreateOrGet(ctx context.Context, c *entity.Customer) (*entity.Customer, error) {
	query := `
		INSERT INTO customers (id, name, phone, total_orders, total_spent, last_order_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (phone) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Phone, c.TotalOrders, c.TotalSpent, c.LastOrderAt, c.CreatedAt, c.UpdatedAt); err != nil {
		return nil, fmt.Errorf("insert customer: %w", err)
	}
	out, err := r.GetByPhone(ctx, c.Phone)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("insert customer: teléfono %s no encontrado tras el alta", c.Phone)
	}
	return out, nil
}

// RegisterPurchase suma la compra en SQL; no depende de un valor leído antes.
func (r *CustomerRepo) RegisterPurchase(ctx context.Context, id string, amount decimal.Decimal, at time.Time) error {
	query := `
		UPDATE customers
		SET total_orders = total_orders + 1,
		    total_spent = total_spent + $2,
		    last_order_at = GREATEST(COALESCE(last_order_at, $3), $3),
		    updated_at = $3
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, id, amount, at)
	if err != nil {
		return fmt.Errorf("register customer purchase: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) getOne(ctx context.Context, query string, arg any) (*entity.Customer, error) {
	var c entity.Customer
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Name, &c.Phone, &c.TotalOrders, &c.TotalSpent, &c.LastOrderAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
