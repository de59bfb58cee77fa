package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// MovementFilter filtros de consulta del libro de movimientos. Campos vacíos no filtran.
type MovementFilter struct {
	ProductID string
	Type      string
	Reason    string
	From      *time.Time
	To        *time.Time
}

// StockMovementRepository puerto del libro de movimientos (solo inserción y lectura).
type StockMovementRepository interface {
	// Create inserta el movimiento y asigna su ID.
	Create(ctx context.Context, movement *entity.StockMovement) error
	// List ordena por occurred_at DESC, id DESC y devuelve también el total sin paginar.
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error)
	// SumForProduct suma con signo todos los movimientos del producto.
	SumForProduct(ctx context.Context, productID string) (int, error)
}
