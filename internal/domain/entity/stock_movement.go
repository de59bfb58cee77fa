package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento.
const (
	MovementTypeArrival   = "arrival"   // entrada
	MovementTypeDeparture = "departure" // salida
)

// MaxQuantity tope de cantidades y existencias: el esquema las guarda como INTEGER (int32).
const MaxQuantity = math.MaxInt32

// Motivos de movimiento.
const (
	ReasonPurchase   = "purchase"
	ReasonSale       = "sale"
	ReasonDefect     = "defect"
	ReasonReturn     = "return"
	ReasonCorrection = "correction"
	ReasonOther      = "other"
)

// StockMovement registro inmutable de un cambio de existencias.
// Quantity siempre es positiva; el signo lo da Type.
type StockMovement struct {
	ID             int64
	ProductID      string
	Type           string
	Quantity       int
	Reason         string
	OccurredAt     time.Time
	Note           string
	RelatedOrderID string
	SaleID         string
	SupplierName   string
	PurchasePrice  *decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
}

// SignedQuantity devuelve +Quantity para entradas y -Quantity para salidas.
func (m *StockMovement) SignedQuantity() int {
	if m.Type == MovementTypeDeparture {
		return -m.Quantity
	}
	return m.Quantity
}

// IsValidMovementType indica si t es un tipo de movimiento conocido.
func IsValidMovementType(t string) bool {
	return t == MovementTypeArrival || t == MovementTypeDeparture
}

// IsValidReason indica si r es un motivo conocido.
func IsValidReason(r string) bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonDefect, ReasonReturn, ReasonCorrection, ReasonOther:
		return true
	}
	return false
}
