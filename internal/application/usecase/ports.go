package usecase

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con todos los repositorios atados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}

// StockLedger registra la existencia inicial de un producto nuevo en la misma transacción del alta.
type StockLedger interface {
	ApplyInTx(ctx context.Context, repos repository.Repositories, in inventory.MovementInput) (*entity.StockMovement, error)
	Notify(ctx context.Context, movements ...*entity.StockMovement)
}
