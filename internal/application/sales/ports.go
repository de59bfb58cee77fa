package sales

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

// StockLedger integración con el libro de existencias.
// ApplyInTx usa los repositorios del caller (misma transacción); si retorna error
// (ej: InsufficientStockError), el caller debe hacer rollback.
type StockLedger interface {
	ApplyInTx(ctx context.Context, repos repository.Repositories, in inventory.MovementInput) (*entity.StockMovement, error)
	Notify(ctx context.Context, movements ...*entity.StockMovement)
	ObserveRejection(err error)
}

// ReceiptHeader datos de la tienda impresos en el comprobante.
type ReceiptHeader struct {
	StoreName  string
	StorePhone string
}

// ReceiptGenerator genera el comprobante de una venta. Solo lectura: no modifica la venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale, header ReceiptHeader) ([]byte, error)
}

var _ StockLedger = (*inventory.RegisterMovementUseCase)(nil)
