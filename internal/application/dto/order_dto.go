package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerInput datos del cliente; si Phone coincide con uno existente se reutiliza.
type CustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// OrderItemRequest línea solicitada. UnitPrice nil o cero toma el precio del producto.
type OrderItemRequest struct {
	ProductID string           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CreateOrderRequest body para crear un pedido (tienda web o mostrador).
type CreateOrderRequest struct {
	Customer CustomerInput      `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
	Source   string             `json:"source"`
	Comment  string             `json:"comment,omitempty"`
}

// CancelOrderRequest motivo opcional de cancelación.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CompleteOrderRequest cierre del pedido. Items vacío conserva las líneas del pedido.
type CompleteOrderRequest struct {
	PaymentMethod string             `json:"payment_method"`
	Items         []OrderItemRequest `json:"items,omitempty"`
}

// Tipos de documento adjuntable.
const (
	DocumentInvoice = "invoice"
	DocumentAct     = "act"
)

// AttachDocumentRequest número y fecha de factura o acta.
type AttachDocumentRequest struct {
	Kind   string     `json:"kind"`
	Number string     `json:"number"`
	Date   *time.Time `json:"date,omitempty"`
}

// OrderFilter filtros de GET /api/orders.
type OrderFilter struct {
	Status string
	Source string
}

// OrderItemResponse línea con subtotal.
type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Article   string          `json:"article"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// DocumentsResponse metadatos de factura y acta.
type DocumentsResponse struct {
	InvoiceNumber string     `json:"invoice_number,omitempty"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	ActNumber     string     `json:"act_number,omitempty"`
	ActDate       *time.Time `json:"act_date,omitempty"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID            string              `json:"id"`
	Status        string              `json:"status"`
	Source        string              `json:"source"`
	CustomerID    string              `json:"customer_id,omitempty"`
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Comment       string              `json:"comment,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	Documents     DocumentsResponse   `json:"documents"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
}

// OrderListResponse lista paginada.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
