package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// OrderFilter filtros de listado de pedidos.
type OrderFilter struct {
	Status     string
	Source     string
	CustomerID string
}

// OrderRepository puerto de persistencia para pedidos (con sus líneas).
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila del pedido; nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// Update persiste estado, líneas, total, medio de pago, documentos y motivo de cancelación.
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, int, error)
}
