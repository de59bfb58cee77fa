package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, order_id, customer_id, customer_name, customer_phone, payment_method, total_amount, comment, created_by, created_at`

// SaleRepo ventas y sus líneas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus líneas. El índice único sobre order_id impide
// dos ventas para el mismo pedido: devuelve domain.ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, order_id, customer_id, customer_name, customer_phone, payment_method, total_amount, comment, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, nullIfEmpty(s.OrderID), nullIfEmpty(s.CustomerID), s.CustomerName, s.CustomerPhone,
		s.PaymentMethod, s.TotalAmount, s.Comment, nullIfEmpty(s.CreatedBy), s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return saleLines.replace(ctx, r.q, s.ID, s.Items)
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetByOrderID obtiene la venta generada por un pedido, si existe.
func (r *SaleRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE order_id = $1`, orderID)
}

// List ordena de la más reciente a la más antigua.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	list := make([]*entity.Sale, 0)
	ids := make([]string, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := saleLines.load(ctx, r.q, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, s := range list {
		s.Items = items[s.ID]
	}
	return list, total, nil
}

func (r *SaleRepo) getOne(ctx context.Context, query, arg string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := saleLines.load(ctx, r.q, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var orderID, customerID, createdBy *string
	err := row.Scan(
		&s.ID, &orderID, &customerID, &s.CustomerName, &s.CustomerPhone, &s.PaymentMethod,
		&s.TotalAmount, &s.Comment, &createdBy, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.OrderID = fromNull(orderID)
	s.CustomerID = fromNull(customerID)
	s.CreatedBy = fromNull(createdBy)
	return &s, nil
}
