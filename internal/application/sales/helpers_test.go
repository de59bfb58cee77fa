package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

type env struct {
	store       *memory.Store
	events      *recordingPublisher
	movements   *inventory.RegisterMovementUseCase
	orders      *sales.OrderUseCase
	fulfillment *sales.FulfillmentUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	events := &recordingPublisher{}
	obs := ports.Observers{Events: events}
	repos := store.Repositories()
	movements := inventory.NewRegisterMovementUseCase(store.TxRunner(), obs)
	return &env{
		store:       store,
		events:      events,
		movements:   movements,
		orders:      sales.NewOrderUseCase(store.TxRunner(), repos.Orders, obs),
		fulfillment: sales.NewFulfillmentUseCase(store.TxRunner(), movements, repos.Sales, obs),
	}
}

func (e *env) addProduct(t *testing.T, id string, price int64, initial int) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, e.store.Repositories().Products.Create(ctx, &entity.Product{
		ID: id, Article: "ART-" + id, Name: "Producto " + id, Price: decimal.NewFromInt(price),
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	if initial > 0 {
		_, err := e.movements.RecordArrival(ctx, inventory.MovementInput{ProductID: id, Quantity: initial})
		require.NoError(t, err)
	}
}

func (e *env) quantity(t *testing.T, id string) int {
	t.Helper()
	p, err := e.store.Repositories().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

// movementCount total de movimientos; verifica además que el libro cuadre por producto.
func (e *env) movementCount(t *testing.T) int {
	t.Helper()
	for _, id := range []string{"P1", "P2", "P3"} {
		p, err := e.store.Repositories().Products.GetByID(context.Background(), id)
		require.NoError(t, err)
		if p == nil {
			continue
		}
		sum, err := e.store.Repositories().Movements.SumForProduct(context.Background(), id)
		require.NoError(t, err)
		require.Equal(t, p.StockQuantity, sum, "el libro debe cuadrar con la existencia de %s", id)
	}
	_, total, err := e.store.Repositories().Movements.List(context.Background(), repository.MovementFilter{}, 100, 0)
	require.NoError(t, err)
	return total
}

func inventoryArrival(productID string, qty int) inventory.MovementInput {
	return inventory.MovementInput{ProductID: productID, Quantity: qty}
}
