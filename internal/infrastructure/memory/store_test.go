package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/domain/stock"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, repos repository.Repositories, id, article string, qty, min int) {
	t.Helper()
	require.NoError(t, repos.Products.Create(context.Background(), &entity.Product{
		ID: id, Article: article, Name: "Producto " + article,
		StockQuantity: qty, MinStockLevel: min, IsActive: true,
	}))
}

func TestTxRunner_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store.Repositories(), "p1", "A1", 10, 0)

	boom := errors.New("boom")
	err := store.TxRunner().Run(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Stock.SetQuantity(ctx, "p1", 3))
		require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{
			ProductID: "p1", Type: entity.MovementTypeDeparture, Quantity: 7, Reason: entity.ReasonSale, OccurredAt: time.Now(),
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := store.Repositories().Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.StockQuantity)

	list, total, err := store.Repositories().Movements.List(ctx, repository.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
}

func TestTxRunner_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedProduct(t, store.Repositories(), "p1", "A1", 10, 0)

	err := store.TxRunner().Run(ctx, func(repos repository.Repositories) error {
		return repos.Stock.SetQuantity(ctx, "p1", 4)
	})
	require.NoError(t, err)

	s, err := store.Repositories().Stock.GetForUpdate(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 4, s.Quantity)
}

func TestTxRunner_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().TxRunner().Run(ctx, func(repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProducts_ArticuloDuplicado(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store.Repositories(), "p1", "A1", 0, 0)
	err := store.Repositories().Products.Create(context.Background(), &entity.Product{ID: "p2", Article: "A1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMovements_OrdenDescendenteConDesempatePorID(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	seedProduct(t, repos, "p1", "A1", 0, 0)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{
			ProductID: "p1", Type: entity.MovementTypeArrival, Quantity: i + 1, Reason: entity.ReasonPurchase, OccurredAt: at,
		}))
	}
	require.NoError(t, repos.Movements.Create(ctx, &entity.StockMovement{
		ProductID: "p1", Type: entity.MovementTypeArrival, Quantity: 9, Reason: entity.ReasonPurchase, OccurredAt: at.Add(-time.Hour),
	}))

	list, total, err := repos.Movements.List(ctx, repository.MovementFilter{ProductID: "p1"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, 4, total)
	assert.Equal(t, []int64{3, 2, 1, 4}, []int64{list[0].ID, list[1].ID, list[2].ID, list[3].ID})

	page, _, err := repos.Movements.List(ctx, repository.MovementFilter{ProductID: "p1"}, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].ID)
}

func TestStock_CountNeedingAttention(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()
	seedProduct(t, repos, "p1", "A1", 0, 0)  // zero
	seedProduct(t, repos, "p2", "A2", 3, 5)  // low
	seedProduct(t, repos, "p3", "A3", 10, 5) // ok

	n, err := repos.Stock.CountNeedingAttention(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	low, total, err := repos.Products.List(ctx, repository.ProductFilter{StockStatus: stock.StatusLow}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "A2", low[0].Article)
}

func TestCustomers_CreateOrGetYCompras(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	now := time.Now()

	first, err := repos.Customers.CreateOrGet(ctx, &entity.Customer{ID: "c1", Name: "Ana", Phone: "+79001112233", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	second, err := repos.Customers.CreateOrGet(ctx, &entity.Customer{ID: "c2", Name: "Otra", Phone: "+79001112233", CreatedAt: now, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "mismo teléfono, misma ficha")
	assert.Equal(t, "Ana", second.Name)

	require.NoError(t, repos.Customers.RegisterPurchase(ctx, "c1", decimal.NewFromInt(150), now))
	require.NoError(t, repos.Customers.RegisterPurchase(ctx, "c1", decimal.NewFromInt(50), now.Add(-time.Hour)))
	c, err := repos.Customers.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalOrders)
	assert.True(t, decimal.NewFromInt(200).Equal(c.TotalSpent))
	require.NotNil(t, c.LastOrderAt)
	assert.True(t, c.LastOrderAt.Equal(now), "una compra anterior no retrocede la última fecha")

	assert.ErrorIs(t, repos.Customers.RegisterPurchase(ctx, "nadie", decimal.NewFromInt(1), now), domain.ErrNotFound)
}
