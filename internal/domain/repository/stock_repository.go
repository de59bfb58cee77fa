package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockRepository puerto de la fotografía de existencias por producto.
type StockRepository interface {
	// GetForUpdate lee la existencia bloqueando la fila hasta el fin de la transacción.
	// Devuelve nil, nil si el producto no existe.
	GetForUpdate(ctx context.Context, productID string) (*entity.Stock, error)
	SetQuantity(ctx context.Context, productID string, quantity int) error
	SetMinLevel(ctx context.Context, productID string, level int) error
	// CountNeedingAttention cuenta productos activos en estado low o zero.
	CountNeedingAttention(ctx context.Context) (int, error)
}
