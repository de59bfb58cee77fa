package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
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

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type memoryCache struct {
	mu          sync.Mutex
	value       int
	found       bool
	invalidated int
}

func (c *memoryCache) GetLowStockCount(context.Context) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.found, nil
}

func (c *memoryCache) SetLowStockCount(_ context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value, c.found = n, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.found = false
	c.invalidated++
	return nil
}

type env struct {
	store     *memory.Store
	events    *recordingPublisher
	cache     *memoryCache
	movements *inventory.RegisterMovementUseCase
	queries   *inventory.StockQueryUseCase
	importer  *inventory.ImportUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	events := &recordingPublisher{}
	cache := &memoryCache{}
	obs := ports.Observers{Events: events, Cache: cache}
	repos := store.Repositories()
	movements := inventory.NewRegisterMovementUseCase(store.TxRunner(), obs)
	return &env{
		store:     store,
		events:    events,
		cache:     cache,
		movements: movements,
		queries:   inventory.NewStockQueryUseCase(repos.Products, repos.Stock, repos.Movements, obs),
		importer:  inventory.NewImportUseCase(store.TxRunner(), movements, obs),
	}
}

// addProduct crea un producto activo y registra su existencia inicial como entrada de compra.
func (e *env) addProduct(t *testing.T, id, article string, initial, minLevel int) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, e.store.Repositories().Products.Create(ctx, &entity.Product{
		ID: id, Article: article, Name: "Producto " + article, Price: decimal.NewFromInt(100),
		MinStockLevel: minLevel, IsActive: true, CreatedAt: now, UpdatedAt: now,
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
