package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	h handle
}

func copyOrder(o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	return &cp
}

func (r *orderRepo) Create(_ context.Context, order *entity.Order) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[order.ID] = copyOrder(order)
		return nil
	})
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.h.do(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) Update(_ context.Context, order *entity.Order) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.orders[order.ID]; !ok {
			return domain.ErrNotFound
		}
		st.orders[order.ID] = copyOrder(order)
		return nil
	})
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter, limit, offset int) ([]*entity.Order, int, error) {
	var matched []*entity.Order
	err := r.h.do(func(st *state) error {
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.Source != "" && o.Source != f.Source {
				continue
			}
			if f.CustomerID != "" && o.CustomerID != f.CustomerID {
				continue
			}
			matched = append(matched, copyOrder(o))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, limit, offset), len(matched), nil
}
