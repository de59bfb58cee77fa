package sales

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/ordering"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// OrderUseCase alta y ciclo de vida de pedidos. Crear, procesar o cancelar no mueve existencias;
// solo FulfillmentUseCase.CompleteOrder descuenta stock.
type OrderUseCase struct {
	txRunner TxRunner
	orders   repository.OrderRepository
	obs      ports.Observers
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner TxRunner, orders repository.OrderRepository, obs ports.Observers) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, orders: orders, obs: obs.WithDefaults()}
}

// CreateOrder registra un pedido en estado new. Las líneas se validan contra el catálogo activo
// y el cliente se reutiliza por teléfono.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	source := in.Source
	if source == "" {
		source = entity.OrderSourceWebsite
	}
	if source != entity.OrderSourceWebsite && source != entity.OrderSourceOffline {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.Customer.Name) == "" && normalizePhone(in.Customer.Phone) == "" {
		return nil, domain.ErrInvalidInput
	}

	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		now := time.Now()
		items, err := resolveItems(ctx, repos.Products, in.Items, true)
		if err != nil {
			return err
		}
		customer, err := resolveCustomer(ctx, repos.Customers, in.Customer, now)
		if err != nil {
			return err
		}
		order = &entity.Order{
			ID:            uuid.New().String(),
			CustomerName:  strings.TrimSpace(in.Customer.Name),
			CustomerPhone: normalizePhone(in.Customer.Phone),
			Status:        entity.OrderStatusNew,
			Source:        source,
			Items:         items,
			TotalAmount:   entity.CalculateTotal(items),
			Comment:       strings.TrimSpace(in.Comment),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if customer != nil {
			order.CustomerID = customer.ID
			if order.CustomerName == "" {
				order.CustomerName = customer.Name
			}
		}
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	out := ToOrderResponse(order)
	uc.obs.Metrics.OrderTransition(entity.OrderStatusNew)
	uc.publish(ctx, ports.EventOrderCreated, order.ID, order.CreatedAt, out)
	return &out, nil
}

// GetOrder devuelve un pedido por ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrUnknownOrder
	}
	out := ToOrderResponse(o)
	return &out, nil
}

// ListOrders lista pedidos del más reciente al más antiguo.
func (uc *OrderUseCase) ListOrders(ctx context.Context, f dto.OrderFilter, page dto.PageRequest) (*dto.OrderListResponse, error) {
	if f.Status != "" && !ordering.IsValidStatus(f.Status) {
		return nil, domain.ErrInvalidInput
	}
	if f.Source != "" && f.Source != entity.OrderSourceWebsite && f.Source != entity.OrderSourceOffline {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, total, err := uc.orders.List(ctx, repository.OrderFilter{Status: f.Status, Source: f.Source}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// StartProcessing pasa el pedido a processing.
func (uc *OrderUseCase) StartProcessing(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.transition(ctx, id, entity.OrderStatusProcessing, nil)
	if err != nil {
		return nil, err
	}
	out := ToOrderResponse(o)
	return &out, nil
}

// CancelOrder cancela un pedido pendiente. Un pedido completado no se puede cancelar.
func (uc *OrderUseCase) CancelOrder(ctx context.Context, id, reason string) (*dto.OrderResponse, error) {
	o, err := uc.transition(ctx, id, entity.OrderStatusCancelled, func(o *entity.Order) {
		o.CancelReason = strings.TrimSpace(reason)
	})
	if err != nil {
		return nil, err
	}
	out := ToOrderResponse(o)
	uc.publish(ctx, ports.EventOrderCancelled, o.ID, o.UpdatedAt, out)
	return &out, nil
}

// AttachDocument guarda número y fecha de factura o acta. No cambia el estado del pedido.
func (uc *OrderUseCase) AttachDocument(ctx context.Context, id string, in dto.AttachDocumentRequest) (*dto.OrderResponse, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" || (in.Kind != dto.DocumentInvoice && in.Kind != dto.DocumentAct) {
		return nil, domain.ErrInvalidInput
	}
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrUnknownOrder
		}
		if o.Status == entity.OrderStatusCancelled {
			return domain.ErrInvalidTransition
		}
		now := time.Now()
		date := now
		if in.Date != nil {
			date = *in.Date
		}
		switch in.Kind {
		case dto.DocumentInvoice:
			o.Documents.InvoiceNumber = number
			o.Documents.InvoiceDate = &date
		case dto.DocumentAct:
			o.Documents.ActNumber = number
			o.Documents.ActDate = &date
		}
		o.UpdatedAt = now
		order = o
		return repos.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	out := ToOrderResponse(order)
	return &out, nil
}

// transition aplica una transición validada bajo bloqueo de fila.
func (uc *OrderUseCase) transition(ctx context.Context, id, to string, mutate func(o *entity.Order)) (*entity.Order, error) {
	var order *entity.Order
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		o, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrUnknownOrder
		}
		if err := ordering.Transition(o.Status, to); err != nil {
			return err
		}
		o.Status = to
		if mutate != nil {
			mutate(o)
		}
		o.UpdatedAt = time.Now()
		order = o
		return repos.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.obs.Metrics.OrderTransition(to)
	return order, nil
}

func (uc *OrderUseCase) publish(ctx context.Context, eventType, key string, at time.Time, payload any) {
	ev := ports.Event{Type: eventType, Key: key, OccurredAt: at, Payload: payload}
	if err := uc.obs.Events.Publish(ctx, ev); err != nil {
		uc.obs.Log.Warn().Err(err).Str("event", eventType).Str("order_id", key).Msg("publicar evento de pedido")
	}
}
