package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestListStock_FiltraPorEstado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "p1", "A-1", 0, 0)
	e.addProduct(t, "p2", "A-2", 3, 5)
	e.addProduct(t, "p3", "A-3", 9, 5)

	all, err := e.queries.ListStock(ctx, dto.StockFilter{Status: "all"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Page.Total)

	low, err := e.queries.ListStock(ctx, dto.StockFilter{Status: "low"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "A-2", low.Items[0].Article)

	zero, err := e.queries.ListStock(ctx, dto.StockFilter{Status: "zero"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, zero.Items, 1)
	assert.Equal(t, "A-1", zero.Items[0].Article)

	_, err = e.queries.ListStock(ctx, dto.StockFilter{Status: "critical"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStockCount_UsaCacheEInvalidaConMovimientos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "p1", "A-1", 0, 0)
	e.addProduct(t, "p2", "A-2", 10, 5)

	n, err := e.queries.LowStockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, e.cache.found)

	_, err = e.movements.RecordDeparture(ctx, inventory.MovementInput{ProductID: "p2", Quantity: 6, Reason: entity.ReasonDefect})
	require.NoError(t, err)
	assert.False(t, e.cache.found, "un movimiento invalida el indicador")

	n, err = e.queries.LowStockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSetMinLevel_SoloMetadatos(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "p1", "A-1", 4, 0)

	st, err := e.queries.SetMinLevel(ctx, "p1", 4)
	require.NoError(t, err)
	assert.Equal(t, "low", st.Status)
	assert.Equal(t, 4, e.quantity(t, "p1"))

	list, err := e.queries.ListProductMovements(ctx, "p1", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total, "cambiar el umbral no crea movimientos")

	_, err = e.queries.SetMinLevel(ctx, "p1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.queries.SetMinLevel(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestListMovements_Filtros(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "p1", "A-1", 10, 0)
	e.addProduct(t, "p2", "A-2", 10, 0)
	_, err := e.movements.RecordDeparture(ctx, inventory.MovementInput{ProductID: "p1", Quantity: 2, Reason: entity.ReasonDefect})
	require.NoError(t, err)
	_, err = e.movements.RecordDeparture(ctx, inventory.MovementInput{ProductID: "p2", Quantity: 1, Reason: entity.ReasonSale})
	require.NoError(t, err)

	out, err := e.queries.ListMovements(ctx, dto.MovementFilter{Type: entity.MovementTypeDeparture}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)

	out, err = e.queries.ListMovements(ctx, dto.MovementFilter{Reason: entity.ReasonDefect}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "p1", out.Items[0].ProductID)

	future := time.Now().Add(time.Hour)
	out, err = e.queries.ListMovements(ctx, dto.MovementFilter{From: &future}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	_, err = e.queries.ListMovements(ctx, dto.MovementFilter{Type: "transfer"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
