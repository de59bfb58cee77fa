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

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo existencias sobre las columnas stock_quantity y min_stock_level de products (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// GetForUpdate obtiene la existencia y bloquea la fila del producto (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error) {
	query := `
		SELECT id, article, stock_quantity, min_stock_level, updated_at
		FROM products WHERE id = $1
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID).Scan(&s.ProductID, &s.Article, &s.Quantity, &s.MinLevel, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// SetQuantity fija la existencia. El CHECK (stock_quantity >= 0) de la tabla es la última barrera.
func (r *StockRepo) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`, productID, quantity)
	if err != nil {
		return fmt.Errorf("set stock quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownProduct
	}
	return nil
}

// SetMinLevel cambia el umbral de stock bajo.
func (r *StockRepo) SetMinLevel(ctx context.Context, productID string, level int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET min_stock_level = $2, updated_at = now() WHERE id = $1`, productID, level)
	if err != nil {
		return fmt.Errorf("set min stock level: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUnknownProduct
	}
	return nil
}

// CountNeedingAttention cuenta productos activos en estado low o zero.
func (r *StockRepo) CountNeedingAttention(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(*) FROM products
		WHERE is_active AND (stock_quantity <= 0 OR (min_stock_level > 0 AND stock_quantity <= min_stock_level))`
	var n int
	if err := r.q.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}
