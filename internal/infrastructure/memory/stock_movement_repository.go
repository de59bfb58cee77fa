package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)

type movementRepo struct {
	h handle
}

func (r *movementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	return r.h.do(func(st *state) error {
		st.nextMovementID++
		movement.ID = st.nextMovementID
		if movement.CreatedAt.IsZero() {
			movement.CreatedAt = time.Now()
		}
		cp := *movement
		st.movements = append(st.movements, &cp)
		return nil
	})
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, int, error) {
	var matched []*entity.StockMovement
	err := r.h.do(func(st *state) error {
		for _, m := range st.movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.Reason != "" && m.Reason != f.Reason {
				continue
			}
			if f.From != nil && m.OccurredAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.OccurredAt.After(*f.To) {
				continue
			}
			cp := *m
			matched = append(matched, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].OccurredAt.Equal(matched[j].OccurredAt) {
			return matched[i].OccurredAt.After(matched[j].OccurredAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, limit, offset), len(matched), nil
}

func (r *movementRepo) SumForProduct(_ context.Context, productID string) (int, error) {
	sum := 0
	err := r.h.do(func(st *state) error {
		for _, m := range st.movements {
			if m.ProductID == productID {
				sum += m.SignedQuantity()
			}
		}
		return nil
	})
	return sum, err
}
