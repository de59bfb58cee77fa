package entity

import "time"

// Stock fotografía de existencias de un producto, leída con bloqueo de fila antes de aplicar un movimiento.
type Stock struct {
	ProductID string
	Article   string
	Quantity  int
	MinLevel  int
	UpdatedAt time.Time
}
