package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

func TestCreateOrder_PrecioPorDefectoYCliente(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	e.addProduct(t, "P2", 50, 5)

	custom := decimal.NewFromInt(45)
	o, err := e.orders.CreateOrder(ctx, dto.CreateOrderRequest{
		Customer: dto.CustomerInput{Name: " Ana ", Phone: "300-111-2233"},
		Items: []dto.OrderItemRequest{
			{ProductID: "P1", Quantity: 2},
			{ProductID: "P2", Quantity: 1, UnitPrice: &custom},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusNew, o.Status)
	assert.Equal(t, entity.OrderSourceWebsite, o.Source)
	assert.Equal(t, "Ana", o.CustomerName)
	assert.Equal(t, "3001112233", o.CustomerPhone)
	assert.NotEmpty(t, o.CustomerID)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "ART-P1", o.Items[0].Article)
	assert.True(t, decimal.NewFromInt(200).Equal(o.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(245).Equal(o.TotalAmount))
	assert.Equal(t, 1, e.events.ofType(ports.EventOrderCreated))

	// El mismo teléfono reutiliza el cliente
	o2, err := e.orders.CreateOrder(ctx, dto.CreateOrderRequest{
		Customer: dto.CustomerInput{Phone: "3001112233"},
		Items:    []dto.OrderItemRequest{{ProductID: "P1", Quantity: 1}},
		Source:   entity.OrderSourceOffline,
	})
	require.NoError(t, err)
	assert.Equal(t, o.CustomerID, o2.CustomerID)
	assert.Equal(t, "Ana", o2.CustomerName)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	now := time.Now()
	require.NoError(t, e.store.Repositories().Products.Create(ctx, &entity.Product{
		ID: "OFF", Article: "ART-OFF", Name: "Baja", Price: decimal.NewFromInt(1), IsActive: false, CreatedAt: now, UpdatedAt: now,
	}))
	customer := dto.CustomerInput{Name: "Ana"}

	cases := []struct {
		name string
		req  dto.CreateOrderRequest
		want error
	}{
		{"sin líneas", dto.CreateOrderRequest{Customer: customer}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateOrderRequest{Customer: customer, Items: []dto.OrderItemRequest{{ProductID: "P1"}}}, domain.ErrInvalidQuantity},
		{"producto desconocido", dto.CreateOrderRequest{Customer: customer, Items: []dto.OrderItemRequest{{ProductID: "X", Quantity: 1}}}, domain.ErrUnknownProduct},
		{"producto inactivo", dto.CreateOrderRequest{Customer: customer, Items: []dto.OrderItemRequest{{ProductID: "OFF", Quantity: 1}}}, domain.ErrUnknownProduct},
		{"origen inválido", dto.CreateOrderRequest{Customer: customer, Source: "fax", Items: []dto.OrderItemRequest{{ProductID: "P1", Quantity: 1}}}, domain.ErrInvalidInput},
		{"sin cliente", dto.CreateOrderRequest{Items: []dto.OrderItemRequest{{ProductID: "P1", Quantity: 1}}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.orders.CreateOrder(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	list, err := e.orders.ListOrders(ctx, dto.OrderFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
}

func TestOrderLifecycle_TransicionesYCancelacion(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 1})

	got, err := e.orders.StartProcessing(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, got.Status)
	_, err = e.orders.StartProcessing(ctx, o.ID)
	require.NoError(t, err, "processing es idempotente")

	got, err = e.orders.CancelOrder(ctx, o.ID, " sin stock en tienda ")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, got.Status)
	assert.Equal(t, "sin stock en tienda", got.CancelReason)
	assert.Equal(t, 1, e.events.ofType(ports.EventOrderCancelled))

	_, err = e.orders.StartProcessing(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = e.orders.CancelOrder(ctx, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrUnknownOrder)
	assert.Equal(t, 5, e.quantity(t, "P1"), "el ciclo de vida sin cierre no mueve existencias")
}

func TestCancelOrder_CompletadoNoSeCancela(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 2})
	_, err := e.fulfillment.CompleteOrder(ctx, o.ID, dto.CompleteOrderRequest{}, "u1")
	require.NoError(t, err)

	_, err = e.orders.CancelOrder(ctx, o.ID, "tarde")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 3, e.quantity(t, "P1"))
	got, err := e.orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCompleted, got.Status)
}

func TestAttachDocument(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	o := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 1})
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := e.orders.AttachDocument(ctx, o.ID, dto.AttachDocumentRequest{Kind: dto.DocumentInvoice, Number: "F-001", Date: &date})
	require.NoError(t, err)
	assert.Equal(t, "F-001", got.Documents.InvoiceNumber)
	require.NotNil(t, got.Documents.InvoiceDate)
	assert.True(t, date.Equal(*got.Documents.InvoiceDate))
	assert.Equal(t, entity.OrderStatusNew, got.Status)

	got, err = e.orders.AttachDocument(ctx, o.ID, dto.AttachDocumentRequest{Kind: dto.DocumentAct, Number: "A-7"})
	require.NoError(t, err)
	assert.Equal(t, "A-7", got.Documents.ActNumber)
	assert.Equal(t, "F-001", got.Documents.InvoiceNumber)

	_, err = e.orders.AttachDocument(ctx, o.ID, dto.AttachDocumentRequest{Kind: "nota", Number: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.orders.AttachDocument(ctx, o.ID, dto.AttachDocumentRequest{Kind: dto.DocumentAct})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListOrders_FiltroPorEstado(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.addProduct(t, "P1", 100, 5)
	a := createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 1})
	createOrder(t, e, dto.OrderItemRequest{ProductID: "P1", Quantity: 1})
	_, err := e.orders.CancelOrder(ctx, a.ID, "")
	require.NoError(t, err)

	list, err := e.orders.ListOrders(ctx, dto.OrderFilter{Status: entity.OrderStatusNew}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
	_, err = e.orders.ListOrders(ctx, dto.OrderFilter{Status: "archivado"}, dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
