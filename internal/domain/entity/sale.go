package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta registrada. OrderID vacío para ventas de mostrador.
type Sale struct {
	ID            string
	OrderID       string
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	Items         []OrderItem
	TotalAmount   decimal.Decimal
	Comment       string
	CreatedBy     string
	CreatedAt     time.Time
}

// IsWalkIn true si la venta no proviene de un pedido.
func (s *Sale) IsWalkIn() bool { return s.OrderID == "" }
