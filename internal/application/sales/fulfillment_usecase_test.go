package sales_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

func createOrder(t *testing.T, e *env, items ...dto.OrderItemRequest) *dto.OrderResponse {
	t.Helper()
	o, err := e.orders.CreateOrder(context.Background(), dto.CreateOrderRequest{
		Customer: dto.CustomerInput{Name: "Ana", Phone: "+57 300 111 2233"},
		Items:    items,
	})
	require.NoError(t, err)
	return o
}

func TestCompleteOrder_DescuentaExistenciasYCreaVenta(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	e.addProduct(t, "P2", 50, 4)

	o := createOrder(t, e,
		dto.OrderItemRequest{ProductID: "P2", Quantity: 1},
		dto.OrderItemRequest{ProductID: "P1", Quantity: 2},
	)
	assert.Equal(t, 5, e.quantity(t, "P1"), "crear el pedido no reserva stock")

	sale, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{PaymentMethod: entity.PaymentCard}, "u1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, sale.OrderID)
	assert.Equal(t, entity.PaymentCard, sale.PaymentMethod)
	assert.True(t, decimal.NewFromInt(250).Equal(sale.TotalAmount))
	assert.Equal(t, 3, e.quantity(t, "P1"))
	assert.Equal(t, 3, e.quantity(t, "P2"))

	list, total, err := e.store.Repositories().Movements.List(ctx, repository.MovementFilter{Reason: entity.ReasonSale}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	for _, m := range list {
		assert.Equal(t, entity.MovementTypeDeparture, m.Type)
		assert.Equal(t, o.ID, m.RelatedOrderID)
		assert.Equal(t, sale.ID, m.SaleID)
	}

	got, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)

	c, err := e.store.Repositories().Customers.GetByPhone(ctx, "+573001112233")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 1, c.TotalOrders)
	assert.True(t, decimal.NewFromInt(250).Equal(c.TotalSpent))
	require.NotNil(t, c.LastOrderAt)

	assert.Equal(t, 1, e.events.ofType(ports.EventSaleCompleted))
	assert.Equal(t, 4, e.events.ofType(ports.EventMovementRecorded), "dos entradas iniciales y dos salidas")
}

func TestCompleteOrder_SinExistenciasNoCambiaNada(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	e.addProduct(t, "P2", 50, 0)

	o := createOrder(t, e,
		dto.OrderItemRequest{ProductID: "P1", Quantity: 2},
		dto.OrderItemRequest{ProductID: "P2", Quantity: 1},
	)
	before := e.movementCount(t)

	_, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "P2", ise.ProductID)
	assert.Equal(t, "ART-P2", ise.Article)

	assert.Equal(t, 5, e.quantity(t, "P1"), "la línea de P1 se deshace")
	assert.Equal(t, before, e.movementCount(t))
	got, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusNew, got.Status)
	s, err := e.store.Repositories().Sales.GetByOrderID(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, s)
	c, err := e.store.Repositories().Customers.GetByPhone(ctx, "+573001112233")
	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalOrders)

	// Tras reponer stock el mismo pedido se puede completar
	_, err = e.movements.RecordArrival(ctx, inventoryArrival("P2", 3))
	require.NoError(t, err)
	_, err = e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, e.quantity(t, "P1"))
	assert.Equal(t, 2, e.quantity(t, "P2"))
}

func TestCompleteOrder_DobleCierre(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 2})

	_, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
	require.NoError(t, err)
	_, err = e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
	require.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	assert.Equal(t, 3, e.quantity(t, "P1"))
}

func TestCompleteOrder_CierresConcurrentes(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 10)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 3})

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, already := 0, 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrAlreadyCompleted):
				already++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, workers-1, already)
	assert.Equal(t, 7, e.quantity(t, "P1"))
	_, total, err := e.store.Repositories().Sales.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestCompleteOrder_LineasFinalesReemplazanLasDelPedido(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	e.addProduct(t, "P2", 50, 5)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 2})

	price := decimal.NewFromInt(40)
	sale, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: "P2", Quantity: 2, UnitPrice: &price}},
	}, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod, "medio de pago por defecto")
	assert.True(t, decimal.NewFromInt(80).Equal(sale.TotalAmount))
	assert.Equal(t, 5, e.quantity(t, "P1"))
	assert.Equal(t, 3, e.quantity(t, "P2"))

	got, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "P2", got.Items[0].ProductID)
}

func TestCompleteOrder_Validaciones(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 1})

	_, err := e.fulfillment.CompleteOrder(ctx, "no-existe", dto.CompleteOrderRequest{}, "u1")
	assert.ErrorIs(t, err, domain.ErrUnknownOrder)

	_, err = e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{PaymentMethod: "bitcoin"}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.orders.CancelOrder(ctx, o.ID, "cliente desistió")
	require.NoError(t, err)
	_, err = e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 5, e.quantity(t, "P1"))
}

func TestCreateSale_Mostrador(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)

	sale, err := e.fulfillment.CreateSale(ctx, dto.CreateSaleRequest{
		Items:         []dto.OrderItemRequest{{ProductID: "P1", Quantity: 2}},
		PaymentMethod: entity.PaymentTransfer,
	}, "u1")
	require.NoError(t, err)
	assert.Empty(t, sale.OrderID)
	assert.Empty(t, sale.CustomerID)
	assert.True(t, decimal.NewFromInt(200).Equal(sale.TotalAmount))
	assert.Equal(t, 3, e.quantity(t, "P1"))

	_, err = e.fulfillment.CreateSale(ctx, dto.CreateSaleRequest{
		Items: []dto.OrderItemRequest{{ProductID: "P1", Quantity: 4}},
	}, "u1")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, e.quantity(t, "P1"))

	got, err := e.fulfillment.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	_, err = e.fulfillment.GetSale(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := e.fulfillment.ListSales(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestCreateSale_AcumulaEstadisticasDelCliente(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 10)

	for i := 0; i < 2; i++ {
		_, err := e.fulfillment.CreateSale(ctx, dto.CreateSaleRequest{
			Customer: dto.CustomerInput{Name: "Luis", Phone: "3005550000"},
			Items:    []dto.OrderItemRequest{{ProductID: "P1", Quantity: 1}},
		}, "u1")
		require.NoError(t, err)
	}
	c, err := e.store.Repositories().Customers.GetByPhone(ctx, "3005550000")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 2, c.TotalOrders)
	assert.True(t, decimal.NewFromInt(200).Equal(c.TotalSpent))
}

func TestCreateSale_ClienteNuevoConcurrente(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 10)

	const n = 6
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.fulfillment.CreateSale(ctx, dto.CreateSaleRequest{
				Customer: dto.CustomerInput{Name: "Marta", Phone: "+7 (900) 555-00-00"},
				Items:    []dto.OrderItemRequest{{ProductID: "P1", Quantity: 1}},
			}, "u1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err, "un teléfono nuevo repetido no debe hacer fallar la venta")
	}

	c, err := e.store.Repositories().Customers.GetByPhone(ctx, "+79005550000")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, n, c.TotalOrders)
	assert.True(t, decimal.NewFromInt(100*n).Equal(c.TotalSpent))
	assert.Equal(t, 10-n, e.quantity(t, "P1"))
}

func TestCompleteOrder_LineasRepetidasSeSumanPorProducto(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 3)

	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 1})
	_, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{
		PaymentMethod: entity.PaymentCash,
		Items: []dto.OrderItemRequest{
			{ProductID: "P1", Quantity: 2},
			{ProductID: "P1", Quantity: 2},
		},
	}, "u1")
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "P1", stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Available, "disponible real, no lo que quedó tras la primera línea")
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, e.quantity(t, "P1"))

	_, err = e.movements.RecordArrival(ctx, inventory.MovementInput{ProductID: "P1", Quantity: 2})
	require.NoError(t, err)
	sale, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{
		PaymentMethod: entity.PaymentCash,
		Items: []dto.OrderItemRequest{
			{ProductID: "P1", Quantity: 2},
			{ProductID: "P1", Quantity: 2},
		},
	}, "u1")
	require.NoError(t, err)
	assert.Len(t, sale.Items, 2, "la venta conserva las líneas tal como se vendieron")
	assert.Equal(t, 1, e.quantity(t, "P1"))

	list, total, err := e.store.Repositories().Movements.List(ctx, repository.MovementFilter{Reason: entity.ReasonSale}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total, "una sola salida por producto")
	assert.Equal(t, 4, list[0].Quantity)
}
