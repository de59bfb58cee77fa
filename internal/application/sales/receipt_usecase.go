package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	sales     repository.SaleRepository
	generator ReceiptGenerator
	header    ReceiptHeader
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales repository.SaleRepository, generator ReceiptGenerator, header ReceiptHeader) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator, header: header}
}

// DownloadReceipt retorna el PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) DownloadReceipt(ctx context.Context, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	pdfBytes, err := uc.generator.GenerateSaleReceipt(ctx, sale, uc.header)
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	short := sale.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return pdfBytes, fmt.Sprintf("venta-%s.pdf", short), nil
}
