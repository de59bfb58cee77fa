package postgres

import (
	"context"
	"fmt"
)

// schema DDL idempotente. Las restricciones CHECK y UNIQUE respaldan en la base
// las reglas del libro: existencia nunca negativa, cantidades positivas y una venta por pedido.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		article TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		unit_measure TEXT NOT NULL DEFAULT 'unidad',
		min_stock_level INTEGER NOT NULL DEFAULT 0 CHECK (min_stock_level >= 0),
		stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products (name, article)`,
	`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,

	`CREATE TABLE IF NOT EXISTS stock_movements (
		id BIGSERIAL PRIMARY KEY,
		product_id TEXT NOT NULL REFERENCES products(id),
		type TEXT NOT NULL CHECK (type IN ('arrival','departure')),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		reason TEXT NOT NULL CHECK (reason IN ('purchase','sale','defect','return','correction','other')),
		occurred_at TIMESTAMPTZ NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		related_order_id TEXT,
		sale_id TEXT,
		supplier_name TEXT NOT NULL DEFAULT '',
		purchase_price NUMERIC(14,2) CHECK (purchase_price >= 0),
		created_by TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_product_occurred ON stock_movements (product_id, occurred_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_occurred ON stock_movements (occurred_at DESC, id DESC)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL UNIQUE,
		total_orders INTEGER NOT NULL DEFAULT 0,
		total_spent NUMERIC(14,2) NOT NULL DEFAULT 0,
		last_order_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer_id TEXT REFERENCES customers(id),
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL CHECK (status IN ('new','processing','completed','cancelled')),
		source TEXT NOT NULL CHECK (source IN ('website','offline')),
		payment_method TEXT NOT NULL DEFAULT '',
		total_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		cancel_reason TEXT NOT NULL DEFAULT '',
		metadata JSONB NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders (status, created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		article TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(14,2) NOT NULL CHECK (unit_price >= 0),
		PRIMARY KEY (order_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id TEXT PRIMARY KEY,
		order_id TEXT UNIQUE REFERENCES orders(id),
		customer_id TEXT REFERENCES customers(id),
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		payment_method TEXT NOT NULL CHECK (payment_method IN ('cash','card','transfer','other')),
		total_amount NUMERIC(14,2) NOT NULL,
		comment TEXT NOT NULL DEFAULT '',
		created_by TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created ON sales (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS sale_items (
		sale_id TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		product_id TEXT NOT NULL REFERENCES products(id),
		article TEXT NOT NULL,
		name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(14,2) NOT NULL CHECK (unit_price >= 0),
		PRIMARY KEY (sale_id, line_no)
	)`,
}

// EnsureSchema crea tablas e índices si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
