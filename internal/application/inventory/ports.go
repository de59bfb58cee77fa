package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de existencias: verificación y registro del movimiento
// ocurren juntos o no ocurren.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
