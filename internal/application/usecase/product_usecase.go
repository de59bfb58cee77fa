package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

const (
	defaultUnitMeasure = "unidad"
	initialStockNote   = "Existencia inicial"
)

// ProductUseCase casos de uso del catálogo. La existencia se maneja solo vía movimientos.
type ProductUseCase struct {
	txRunner TxRunner
	repo     repository.ProductRepository
	ledger   StockLedger
	obs      ports.Observers
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner TxRunner, repo repository.ProductRepository, ledger StockLedger, obs ports.Observers) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repo: repo, ledger: ledger, obs: obs.WithDefaults()}
}

// Create crea un producto. InitialQuantity > 0 se registra como entrada de compra en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	article := inventory.NormalizeArticle(in.Article)
	name := strings.TrimSpace(in.Name)
	if article == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || in.MinStockLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialQuantity < 0 || in.InitialQuantity > entity.MaxQuantity {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = defaultUnitMeasure
	}

	var product *entity.Product
	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		movs = nil
		existing, err := repos.Products.GetByArticle(ctx, article)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		now := time.Now()
		product = &entity.Product{
			ID:            uuid.New().String(),
			Article:       article,
			Name:          name,
			Category:      strings.TrimSpace(in.Category),
			Description:   in.Description,
			Price:         in.Price,
			UnitMeasure:   in.UnitMeasure,
			MinStockLevel: in.MinStockLevel,
			IsActive:      true,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.InitialQuantity == 0 {
			return nil
		}
		mov, err := uc.ledger.ApplyInTx(ctx, repos, inventory.MovementInput{
			ProductID: product.ID,
			Type:      entity.MovementTypeArrival,
			Quantity:  in.InitialQuantity,
			Reason:    entity.ReasonPurchase,
			Note:      initialStockNote,
			UserID:    userID,
		})
		if err != nil {
			return err
		}
		movs = append(movs, mov)
		product.StockQuantity = in.InitialQuantity
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.ledger.Notify(ctx, movs...)
	if len(movs) == 0 {
		// Un producto nuevo en cero cuenta como agotado en el indicador.
		uc.invalidateBadge(ctx, product.ID)
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	return toProductResponse(product), nil
}

// Update actualiza datos de catálogo. No permite modificar el artículo ni la existencia.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = *in.UnitMeasure
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista el catálogo con paginación. Por defecto solo productos activos.
func (uc *ProductUseCase) List(ctx context.Context, f dto.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:     f.Search,
		Category:   f.Category,
		ActiveOnly: !f.IncludeInactive,
	}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// SetActive da de baja o reactiva un producto. Los productos nunca se borran: el libro los referencia.
func (uc *ProductUseCase) SetActive(ctx context.Context, id string, active bool) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrUnknownProduct
	}
	if product.IsActive == active {
		return toProductResponse(product), nil
	}
	product.IsActive = active
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.invalidateBadge(ctx, product.ID)
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) invalidateBadge(ctx context.Context, productID string) {
	if err := uc.obs.Cache.Invalidate(ctx); err != nil {
		uc.obs.Log.Warn().Err(err).Str("product_id", productID).Msg("invalidar caché de stock bajo")
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Article:       p.Article,
		Name:          p.Name,
		Category:      p.Category,
		Description:   p.Description,
		Price:         p.Price,
		UnitMeasure:   p.UnitMeasure,
		MinStockLevel: p.MinStockLevel,
		StockQuantity: p.StockQuantity,
		StockStatus:   string(stock.Evaluate(p.StockQuantity, p.MinStockLevel)),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
