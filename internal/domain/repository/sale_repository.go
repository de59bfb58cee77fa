package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas.
type SaleRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe una venta para el mismo pedido.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error)
}
