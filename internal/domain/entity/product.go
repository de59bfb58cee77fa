package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo con su existencia actual.
// StockQuantity solo cambia vía movimientos del libro de existencias.
type Product struct {
	ID            string
	Article       string // código único e inmutable
	Name          string
	Category      string // ruta de categoría, ej. "Herramientas/Manuales"
	Description   string
	Price         decimal.Decimal // precio de venta unitario
	UnitMeasure   string
	MinStockLevel int // umbral de stock bajo (0 = sin alerta)
	StockQuantity int // siempre >= 0
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
