package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, type, quantity, reason, occurred_at, note, related_order_id, sale_id, supplier_name, purchase_price, created_by, created_at`

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserción y lectura.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento y asigna el ID generado por la secuencia.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, type, quantity, reason, occurred_at, note, related_order_id, sale_id, supplier_name, purchase_price, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Type, m.Quantity, m.Reason, m.OccurredAt, m.Note,
		nullIfEmpty(m.RelatedOrderID), nullIfEmpty(m.SaleID), m.SupplierName, m.PurchasePrice,
		nullIfEmpty(m.CreatedBy), m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// List filtra el libro y ordena por occurred_at DESC, id DESC. Devuelve el total sin paginar.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	where := []string{"TRUE"}
	var args []any
	pos := 1
	add := func(cond string, v any) {
		where = append(where, fmt.Sprintf(cond, pos))
		args = append(args, v)
		pos++
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Type != "" {
		add("type = $%d", f.Type)
	}
	if f.Reason != "" {
		add("reason = $%d", f.Reason)
	}
	if f.From != nil {
		add("occurred_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("occurred_at <= $%d", *f.To)
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM stock_movements WHERE %s ORDER BY occurred_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		movementColumns, cond, pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockMovement, 0)
	for rows.Next() {
		var m entity.StockMovement
		var orderID, saleID, createdBy *string
		var price *decimal.Decimal
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Reason, &m.OccurredAt, &m.Note,
			&orderID, &saleID, &m.SupplierName, &price, &createdBy, &m.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		m.RelatedOrderID = fromNull(orderID)
		m.SaleID = fromNull(saleID)
		m.CreatedBy = fromNull(createdBy)
		m.PurchasePrice = price
		list = append(list, &m)
	}
	return list, total, rows.Err()
}

// SumForProduct suma con signo los movimientos del producto (entradas positivas, salidas negativas).
func (r *StockMovementRepo) SumForProduct(ctx context.Context, productID string) (int, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'departure' THEN -quantity ELSE quantity END), 0)
		FROM stock_movements WHERE product_id = $1`
	var sum int
	if err := r.q.QueryRow(ctx, query, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
