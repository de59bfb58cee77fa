package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest venta de mostrador sin pedido previo.
type CreateSaleRequest struct {
	Customer      CustomerInput      `json:"customer"`
	Items         []OrderItemRequest `json:"items"`
	PaymentMethod string             `json:"payment_method"`
	Comment       string             `json:"comment,omitempty"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID            string              `json:"id"`
	OrderID       string              `json:"order_id,omitempty"`
	CustomerID    string              `json:"customer_id,omitempty"`
	CustomerName  string              `json:"customer_name,omitempty"`
	CustomerPhone string              `json:"customer_phone,omitempty"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Comment       string              `json:"comment,omitempty"`
	CreatedBy     string              `json:"created_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// SaleListResponse lista paginada.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
