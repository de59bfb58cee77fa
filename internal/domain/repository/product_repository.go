package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

// ProductFilter criterios de listado del catálogo / vista de bodega.
type ProductFilter struct {
	Search      string       // coincide con artículo o nombre (sin distinguir mayúsculas)
	Category    string       // prefijo de la ruta de categoría
	StockStatus stock.Status // "" = todos
	ActiveOnly  bool
}

// ProductRepository puerto de persistencia para productos.
// StockQuantity no se modifica aquí: solo StockRepository la escribe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByArticle(ctx context.Context, article string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*entity.Product, int, error)
}
