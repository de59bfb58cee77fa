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
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, article, name, category, description, price, unit_measure, min_stock_level, stock_quantity, is_active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. La existencia arranca en 0; solo los movimientos la cambian.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, article, name, category, description, price, unit_measure, min_stock_level, stock_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Article, product.Name, product.Category, product.Description,
		product.Price, product.UnitMeasure, product.MinStockLevel, product.IsActive,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByArticle obtiene un producto por su código de artículo (ya normalizado).
func (r *ProductRepo) GetByArticle(ctx context.Context, article string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE article = $1`, article))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by article: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. No modifica artículo ni existencia.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, description = $4, price = $5, unit_measure = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Category, product.Description, product.Price,
		product.UnitMeasure, product.IsActive, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por texto, prefijo de categoría, estado de existencias y actividad. Ordena por nombre y artículo.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	where := []string{"TRUE"}
	var args []any
	pos := 1
	if f.ActiveOnly {
		where = append(where, "is_active")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, fmt.Sprintf("(article ILIKE $%d OR name ILIKE $%d)", pos, pos))
		args = append(args, "%"+escapeLike(s)+"%")
		pos++
	}
	if f.Category != "" {
		where = append(where, fmt.Sprintf("category LIKE $%d", pos))
		args = append(args, escapeLike(f.Category)+"%")
		pos++
	}
	switch f.StockStatus {
	case stock.StatusZero:
		where = append(where, "stock_quantity <= 0")
	case stock.StatusLow:
		where = append(where, "stock_quantity > 0 AND min_stock_level > 0 AND stock_quantity <= min_stock_level")
	case stock.StatusOK:
		where = append(where, "stock_quantity > 0 AND (min_stock_level = 0 OR stock_quantity > min_stock_level)")
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY name, article LIMIT $%d OFFSET $%d`,
		productColumns, cond, pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Article, &p.Name, &p.Category, &p.Description, &p.Price, &p.UnitMeasure,
		&p.MinStockLevel, &p.StockQuantity, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// escapeLike escapa los comodines de LIKE en un texto de búsqueda.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
