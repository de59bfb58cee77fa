package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del pedido. new y processing son pendientes; completed y cancelled son terminales.
const (
	OrderStatusNew        = "new"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Origen del pedido.
const (
	OrderSourceWebsite = "website"
	OrderSourceOffline = "offline"
)

// Medios de pago.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentOther    = "other"
)

// IsValidPaymentMethod indica si m es un medio de pago conocido.
func IsValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentOther:
		return true
	}
	return false
}

// OrderItem línea de pedido o de venta.
type OrderItem struct {
	ProductID string
	Article   string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Subtotal cantidad por precio unitario.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderDocuments metadatos de factura y acta adjuntos al pedido.
type OrderDocuments struct {
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	ActNumber     string     `json:"act_number,omitempty"`
	ActDate       *time.Time `json:"act_date,omitempty"`
}

// Order pedido de cliente.
type Order struct {
	ID            string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Status        string
	Source        string
	PaymentMethod string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	Comment       string
	CancelReason  string
	Documents     OrderDocuments
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// IsPending true para new y processing.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusNew || o.Status == OrderStatusProcessing
}

// IsTerminal true para completed y cancelled.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// CalculateTotal suma los subtotales de las líneas.
func CalculateTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
