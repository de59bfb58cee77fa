package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*customerRepo)(nil)

type customerRepo struct {
	h handle
}

func (r *customerRepo) Create(_ context.Context, c *entity.Customer) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if c.Phone != "" {
			if _, ok := st.phones[c.Phone]; ok {
				return domain.ErrDuplicate
			}
			st.phones[c.Phone] = c.ID
		}
		cp := *c
		st.customers[c.ID] = &cp
		return nil
	})
}

func (r *customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.do(func(st *state) error {
		if c, ok := st.customers[id]; ok {
			cp := *c
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) GetByPhone(_ context.Context, phone string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.do(func(st *state) error {
		if id, ok := st.phones[phone]; ok {
			cp := *st.customers[id]
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *customerRepo) Update(_ context.Context, c *entity.Customer) error {
	return r.h.do(func(st *state) error {
		if _, ok := st.customers[c.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *c
		st.customers[c.ID] = &cp
		return nil
	})
}

func (r *customerRepo) CreateOrGet(_ context.Context, c *entity.Customer) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.h.do(func(st *state) error {
		if id, ok := st.phones[c.Phone]; ok {
			cp := *st.customers[id]
			out = &cp
			return nil
		}
		if _, ok := st.customers[c.ID]; ok {
			return domain.ErrDuplicate
		}
		stored := *c
		st.customers[c.ID] = &stored
		if c.Phone != "" {
			st.phones[c.Phone] = c.ID
		}
		cp := stored
		out = &cp
		return nil
	})
	return out, err
}

func (r *customerRepo) RegisterPurchase(_ context.Context, id string, amount decimal.Decimal, at time.Time) error {
	return r.h.do(func(st *state) error {
		c, ok := st.customers[id]
		if !ok {
			return domain.ErrNotFound
		}
		last := c.LastOrderAt
		c.RegisterPurchase(amount, at)
		if last != nil && last.After(at) {
			c.LastOrderAt = last
		}
		return nil
	})
}
