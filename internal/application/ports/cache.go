package ports

import "context"

// LowStockCache caché del indicador de productos con stock bajo o agotado.
type LowStockCache interface {
	// GetLowStockCount devuelve found=false si no hay valor en caché.
	GetLowStockCount(ctx context.Context) (count int, found bool, err error)
	SetLowStockCount(ctx context.Context, count int) error
	Invalidate(ctx context.Context) error
}

// NoopLowStockCache nunca encuentra valores.
type NoopLowStockCache struct{}

func (NoopLowStockCache) GetLowStockCount(context.Context) (int, bool, error) { return 0, false, nil }
func (NoopLowStockCache) SetLowStockCount(context.Context, int) error       { return nil }
func (NoopLowStockCache) Invalidate(context.Context) error                  { return nil }
