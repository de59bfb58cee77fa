package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// lineTable describe una tabla de líneas (order_items o sale_items) y su columna padre.
type lineTable struct {
	name   string
	parent string
}

var (
	orderLines = lineTable{name: "order_items", parent: "order_id"}
	saleLines  = lineTable{name: "sale_items", parent: "sale_id"}
)

// replace borra las líneas del padre e inserta las nuevas conservando el orden.
func (t lineTable) replace(ctx context.Context, q Querier, parentID string, items []entity.OrderItem) error {
	if _, err := q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.name, t.parent), parentID); err != nil {
		return fmt.Errorf("delete %s: %w", t.name, err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, line_no, product_id, article, name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, t.name, t.parent)
	for i, it := range items {
		if _, err := q.Exec(ctx, query, parentID, i+1, it.ProductID, it.Article, it.Name, it.Quantity, it.UnitPrice); err != nil {
			return fmt.Errorf("insert %s: %w", t.name, err)
		}
	}
	return nil
}

// load devuelve las líneas de varios padres agrupadas por ID.
func (t lineTable) load(ctx context.Context, q Querier, parentIDs []string) (map[string][]entity.OrderItem, error) {
	out := make(map[string][]entity.OrderItem, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	query := fmt.Sprintf(`
		SELECT %s, product_id, article, name, quantity, unit_price
		FROM %s WHERE %s = ANY($1) ORDER BY %s, line_no`, t.parent, t.name, t.parent, t.parent)
	rows, err := q.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var parentID string
		var it entity.OrderItem
		if err := rows.Scan(&parentID, &it.ProductID, &it.Article, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out[parentID] = append(out[parentID], it)
	}
	return out, rows.Err()
}
