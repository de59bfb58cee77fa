package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

var _ repository.StockRepository = (*stockRepo)(nil)

type stockRepo struct {
	h handle
}

// GetForUpdate no necesita bloqueo propio: la transacción ya tiene el almacén en exclusiva.
func (r *stockRepo) GetForUpdate(_ context.Context, productID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.h.do(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return nil
		}
		out = &entity.Stock{
			ProductID: p.ID,
			Article:   p.Article,
			Quantity:  p.StockQuantity,
			MinLevel:  p.MinStockLevel,
			UpdatedAt: p.UpdatedAt,
		}
		return nil
	})
	return out, err
}

func (r *stockRepo) SetQuantity(_ context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	return r.h.do(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrUnknownProduct
		}
		p.StockQuantity = quantity
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r *stockRepo) SetMinLevel(_ context.Context, productID string, level int) error {
	return r.h.do(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrUnknownProduct
		}
		p.MinStockLevel = level
		p.UpdatedAt = time.Now()
		return nil
	})
}

func (r *stockRepo) CountNeedingAttention(_ context.Context) (int, error) {
	n := 0
	err := r.h.do(func(st *state) error {
		for _, p := range st.products {
			if p.IsActive && stock.NeedsAttention(stock.Evaluate(p.StockQuantity, p.MinStockLevel)) {
				n++
			}
		}
		return nil
	})
	return n, err
}
