package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*saleRepo)(nil)

type saleRepo struct {
	h handle
}

func copySale(s *entity.Sale) *entity.Sale {
	cp := *s
	cp.Items = append([]entity.OrderItem(nil), s.Items...)
	return &cp
}

func (r *saleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.sales[sale.ID]; ok {
			return domain.ErrDuplicate
		}
		if sale.OrderID != "" {
			if _, ok := st.saleByOrder[sale.OrderID]; ok {
				return domain.ErrDuplicate
			}
			st.saleByOrder[sale.OrderID] = sale.ID
		}
		st.sales[sale.ID] = copySale(sale)
		return nil
	})
}

func (r *saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.do(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = copySale(s)
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) GetByOrderID(_ context.Context, orderID string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.do(func(st *state) error {
		if id, ok := st.saleByOrder[orderID]; ok {
			out = copySale(st.sales[id])
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) List(_ context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	var all []*entity.Sale
	err := r.h.do(func(st *state) error {
		for _, s := range st.sales {
			all = append(all, copySale(s))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return paginate(all, limit, offset), len(all), nil
}
