package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
)

var _ repository.ProductRepository = (*productRepo)(nil)

type productRepo struct {
	h handle
}

func (r *productRepo) Create(_ context.Context, product *entity.Product) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.products[product.ID]; ok {
			return domain.ErrDuplicate
		}
		if _, ok := st.articles[product.Article]; ok {
			return domain.ErrDuplicate
		}
		cp := *product
		st.products[product.ID] = &cp
		st.articles[product.Article] = product.ID
		return nil
	})
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.do(func(st *state) error {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *productRepo) GetByArticle(_ context.Context, article string) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.do(func(st *state) error {
		if id, ok := st.articles[article]; ok {
			cp := *st.products[id]
			out = &cp
		}
		return nil
	})
	return out, err
}

// Update no toca artículo ni existencia.
func (r *productRepo) Update(_ context.Context, product *entity.Product) error {
	return r.h.do(func(st *state) error {
		p, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		p.Name = product.Name
		p.Category = product.Category
		p.Description = product.Description
		p.Price = product.Price
		p.UnitMeasure = product.UnitMeasure
		p.IsActive = product.IsActive
		p.UpdatedAt = product.UpdatedAt
		return nil
	})
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	var matched []*entity.Product
	err := r.h.do(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, p := range st.products {
			if f.ActiveOnly && !p.IsActive {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Article), search) &&
				!strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			if f.Category != "" && !strings.HasPrefix(p.Category, f.Category) {
				continue
			}
			if f.StockStatus != "" && stock.Evaluate(p.StockQuantity, p.MinStockLevel) != f.StockStatus {
				continue
			}
			cp := *p
			matched = append(matched, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].Article < matched[j].Article
	})
	return paginate(matched, limit, offset), len(matched), nil
}
