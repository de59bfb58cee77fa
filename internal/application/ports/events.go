package ports

import (
	"context"
	"time"
)

// Tipos de evento publicados después de confirmar la transacción.
const (
	EventMovementRecorded = "stock.movement_recorded"
	EventOrderCreated     = "order.created"
	EventOrderCancelled   = "order.cancelled"
	EventSaleCompleted    = "sale.completed"
)

// Event evento de dominio. Key agrupa por agregado (producto, pedido o venta).
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// EventPublisher publica eventos hacia sistemas externos. Best-effort: un fallo no deshace la operación.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
}

// NoopPublisher descarta los eventos.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ...Event) error { return nil }
