package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialQuantity se registra como entrada de compra.
type CreateProductRequest struct {
	Article         string          `json:"article"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	UnitMeasure     string          `json:"unit_measure"`
	MinStockLevel   int             `json:"min_stock_level"`
	InitialQuantity int             `json:"initial_quantity"`
}

// UpdateProductRequest entrada para actualizar un producto (sin artículo ni existencias).
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	UnitMeasure *string          `json:"unit_measure"`
}

// ProductFilter filtros de GET /api/products.
type ProductFilter struct {
	Search          string
	Category        string
	IncludeInactive bool
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string          `json:"id"`
	Article       string          `json:"article"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	UnitMeasure   string          `json:"unit_measure"`
	MinStockLevel int             `json:"min_stock_level"`
	StockQuantity int             `json:"stock_quantity"`
	StockStatus   string          `json:"stock_status"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
