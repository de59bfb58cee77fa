package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/inventory/arrivals y /api/inventory/departures.
type RecordMovementRequest struct {
	ProductID      string           `json:"product_id"`
	Quantity       int              `json:"quantity"`
	Reason         string           `json:"reason"`
	OccurredAt     *time.Time       `json:"occurred_at,omitempty"`
	Note           string           `json:"note,omitempty"`
	RelatedOrderID string           `json:"related_order_id,omitempty"`
	SupplierName   string           `json:"supplier_name,omitempty"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price,omitempty"`
}

// AdjustStockRequest fija la existencia de un producto a Quantity mediante un movimiento de corrección.
type AdjustStockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

// SetMinLevelRequest body para PUT /api/inventory/stock/:productId/min-level.
type SetMinLevelRequest struct {
	MinLevel int `json:"min_level"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID             int64            `json:"id"`
	ProductID      string           `json:"product_id"`
	Type           string           `json:"type"`
	Quantity       int              `json:"quantity"`
	Reason         string           `json:"reason"`
	OccurredAt     time.Time        `json:"occurred_at"`
	Note           string           `json:"note,omitempty"`
	RelatedOrderID string           `json:"related_order_id,omitempty"`
	SaleID         string           `json:"sale_id,omitempty"`
	SupplierName   string           `json:"supplier_name,omitempty"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price,omitempty"`
	CreatedBy      string           `json:"created_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// MovementFilter filtros de GET /api/inventory/movements.
type MovementFilter struct {
	ProductID string
	Type      string
	Reason    string
	From      *time.Time
	To        *time.Time
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse existencia actual y estado derivado de un producto.
type StockResponse struct {
	ProductID string `json:"product_id"`
	Article   string `json:"article"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	MinLevel  int    `json:"min_level"`
	Status    string `json:"status"` // zero | low | ok
	IsActive  bool   `json:"is_active"`
}

// StockFilter filtros de la vista de bodega. Status: all | low | zero | ok.
type StockFilter struct {
	Search   string
	Category string
	Status   string
}

// StockListResponse página de la vista de bodega.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// LowStockCountResponse indicador de productos con stock bajo o agotado.
type LowStockCountResponse struct {
	Count int `json:"count"`
}

// LedgerCheckResponse compara la existencia registrada con la suma del libro.
type LedgerCheckResponse struct {
	ProductID  string `json:"product_id"`
	Snapshot   int    `json:"snapshot"`
	LedgerSum  int    `json:"ledger_sum"`
	Consistent bool   `json:"consistent"`
}

// ImportRow fila de importación tal como llega de la hoja de cálculo (valores en texto).
type ImportRow struct {
	Row           int    `json:"row"`
	Article       string `json:"article"`
	Name          string `json:"name"`
	Category      string `json:"category,omitempty"`
	Quantity      string `json:"quantity"`
	PurchasePrice string `json:"purchase_price,omitempty"`
	SupplierName  string `json:"supplier_name,omitempty"`
}

// ImportRequest body para POST /api/inventory/import.
type ImportRequest struct {
	Rows []ImportRow `json:"rows"`
}

// ImportRowError error de una fila; no detiene el resto del lote.
type ImportRowError struct {
	Row     int    `json:"row"`
	Article string `json:"article,omitempty"`
	Reason  string `json:"reason"`
}

// ImportResult resumen del lote.
type ImportResult struct {
	Created   int              `json:"created"`
	Updated   int              `json:"updated"`
	Unchanged int              `json:"unchanged"`
	Errors    []ImportRowError `json:"errors"`
}
