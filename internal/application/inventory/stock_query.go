package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

// StockQueryUseCase consultas de existencias, vista de bodega y libro de movimientos.
type StockQueryUseCase struct {
	products  repository.ProductRepository
	stock     repository.StockRepository
	movements repository.StockMovementRepository
	obs       ports.Observers
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(
	products repository.ProductRepository,
	stockRepo repository.StockRepository,
	movements repository.StockMovementRepository,
	obs ports.Observers,
) *StockQueryUseCase {
	return &StockQueryUseCase{
		products:  products,
		stock:     stockRepo,
		movements: movements,
		obs:       obs.WithDefaults(),
	}
}

// GetStock devuelve la existencia actual y su estado.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, productID string) (*dto.StockResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUnknownProduct
	}
	out := ToStockResponse(p)
	return &out, nil
}

// ListStock vista de bodega: productos activos filtrados por texto, categoría y estado.
func (uc *StockQueryUseCase) ListStock(ctx context.Context, f dto.StockFilter, page dto.PageRequest) (*dto.StockListResponse, error) {
	status, ok := stock.ParseFilter(f.Status)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, total, err := uc.products.List(ctx, repository.ProductFilter{
		Search:      f.Search,
		Category:    f.Category,
		StockStatus: status,
		ActiveOnly:  true,
	}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToStockResponse(p))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// LowStockCount número de productos activos en estado low o zero (indicador del menú).
func (uc *StockQueryUseCase) LowStockCount(ctx context.Context) (int, error) {
	if n, found, err := uc.obs.Cache.GetLowStockCount(ctx); err != nil {
		uc.obs.Log.Warn().Err(err).Msg("leer caché de stock bajo")
	} else if found {
		return n, nil
	}
	n, err := uc.stock.CountNeedingAttention(ctx)
	if err != nil {
		return 0, err
	}
	if err := uc.obs.Cache.SetLowStockCount(ctx, n); err != nil {
		uc.obs.Log.Warn().Err(err).Msg("guardar caché de stock bajo")
	}
	return n, nil
}

// SetMinLevel cambia el umbral de stock bajo. Solo metadatos: no genera movimiento.
func (uc *StockQueryUseCase) SetMinLevel(ctx context.Context, productID string, level int) (*dto.StockResponse, error) {
	if level < 0 {
		return nil, domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUnknownProduct
	}
	if err := uc.stock.SetMinLevel(ctx, productID, level); err != nil {
		return nil, err
	}
	if err := uc.obs.Cache.Invalidate(ctx); err != nil {
		uc.obs.Log.Warn().Err(err).Msg("invalidar caché de stock bajo")
	}
	p.MinStockLevel = level
	out := ToStockResponse(p)
	return &out, nil
}

// ListMovements consulta el libro con filtros opcionales, del más reciente al más antiguo.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, f dto.MovementFilter, page dto.PageRequest) (*dto.MovementListResponse, error) {
	if f.Type != "" && !entity.IsValidMovementType(f.Type) {
		return nil, domain.ErrInvalidInput
	}
	if f.Reason != "" && !entity.IsValidReason(f.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, total, err := uc.movements.List(ctx, repository.MovementFilter{
		ProductID: f.ProductID,
		Type:      f.Type,
		Reason:    f.Reason,
		From:      f.From,
		To:        f.To,
	}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListProductMovements historial de un producto.
func (uc *StockQueryUseCase) ListProductMovements(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUnknownProduct
	}
	return uc.ListMovements(ctx, dto.MovementFilter{ProductID: productID}, page)
}

// VerifyLedger compara la existencia registrada con la suma con signo de sus movimientos.
func (uc *StockQueryUseCase) VerifyLedger(ctx context.Context, productID string) (*dto.LedgerCheckResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUnknownProduct
	}
	sum, err := uc.movements.SumForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if sum != p.StockQuantity {
		uc.obs.Log.Error().Str("product_id", productID).Int("snapshot", p.StockQuantity).Int("ledger_sum", sum).
			Msg("existencia no coincide con el libro")
	}
	return &dto.LedgerCheckResponse{
		ProductID:  productID,
		Snapshot:   p.StockQuantity,
		LedgerSum:  sum,
		Consistent: sum == p.StockQuantity,
	}, nil
}

// ToStockResponse mapea un producto a su estado de existencias.
func ToStockResponse(p *entity.Product) dto.StockResponse {
	return dto.StockResponse{
		ProductID: p.ID,
		Article:   p.Article,
		Name:      p.Name,
		Category:  p.Category,
		Quantity:  p.StockQuantity,
		MinLevel:  p.MinStockLevel,
		Status:    string(stock.Evaluate(p.StockQuantity, p.MinStockLevel)),
		IsActive:  p.IsActive,
	}
}
