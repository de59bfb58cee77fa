package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer cliente identificado por teléfono, con estadísticas de compra acumuladas.
type Customer struct {
	ID          string
	Name        string
	Phone       string
	TotalOrders int
	TotalSpent  decimal.Decimal
	LastOrderAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RegisterPurchase acumula una compra completada en las estadísticas del cliente.
func (c *Customer) RegisterPurchase(amount decimal.Decimal, at time.Time) {
	c.TotalOrders++
	c.TotalSpent = c.TotalSpent.Add(amount)
	t := at
	c.LastOrderAt = &t
	c.UpdatedAt = at
}
