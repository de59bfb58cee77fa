package sales

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/application/ports"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/ordering"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

const walkInNote = "Venta de mostrador"

// FulfillmentUseCase cierra pedidos y registra ventas de mostrador.
// Venta, salidas de stock, estado del pedido y estadísticas del cliente se confirman juntos
// en una sola transacción; si una línea no tiene existencias no cambia nada.
type FulfillmentUseCase struct {
	txRunner TxRunner
	ledger   StockLedger
	sales    repository.SaleRepository
	obs      ports.Observers
}

// NewFulfillmentUseCase construye el caso de uso.
func NewFulfillmentUseCase(txRunner TxRunner, ledger StockLedger, sales repository.SaleRepository, obs ports.Observers) *FulfillmentUseCase {
	return &FulfillmentUseCase{txRunner: txRunner, ledger: ledger, sales: sales, obs: obs.WithDefaults()}
}

// CompleteOrder completa un pedido pendiente: crea la venta y una salida (motivo sale) por línea.
// Un segundo intento sobre el mismo pedido devuelve ErrAlreadyCompleted sin tocar existencias.
func (uc *FulfillmentUseCase) CompleteOrder(ctx context.Context, orderID string, in dto.CompleteOrderRequest, userID string) (*dto.SaleResponse, error) {
	started := time.Now()
	payment, err := paymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	var movs []*entity.StockMovement
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		sale, movs = nil, nil
		// Bloquea el pedido: dos cierres concurrentes se serializan aquí
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrUnknownOrder
		}
		if err := ordering.Transition(order.Status, entity.OrderStatusCompleted); err != nil {
			return err
		}

		items := order.Items
		if len(in.Items) > 0 {
			if items, err = resolveItems(ctx, repos.Products, in.Items, false); err != nil {
				return err
			}
		}
		if len(items) == 0 {
			return domain.ErrInvalidInput
		}

		now := time.Now()
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			OrderID:       order.ID,
			CustomerID:    order.CustomerID,
			CustomerName:  order.CustomerName,
			CustomerPhone: order.CustomerPhone,
			PaymentMethod: payment,
			Items:         items,
			TotalAmount:   entity.CalculateTotal(items),
			Comment:       order.Comment,
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if movs, err = uc.deduct(ctx, repos, sale, "Pedido "+order.ID); err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return domain.ErrAlreadyCompleted
			}
			return err
		}

		order.Items = items
		order.TotalAmount = sale.TotalAmount
		order.PaymentMethod = payment
		order.Status = entity.OrderStatusCompleted
		order.CompletedAt = &now
		order.UpdatedAt = now
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}
		return registerPurchase(ctx, repos.Customers, order.CustomerID, sale.TotalAmount, now)
	})
	if err != nil {
		uc.ledger.ObserveRejection(err)
		uc.obs.Metrics.FulfillmentObserved(outcomeOf(err), time.Since(started))
		return nil, err
	}

	uc.obs.Metrics.FulfillmentObserved("completed", time.Since(started))
	uc.obs.Metrics.OrderTransition(entity.OrderStatusCompleted)
	return uc.afterCommit(ctx, sale, movs), nil
}

// CreateSale registra una venta de mostrador sin pedido previo, con las mismas garantías que CompleteOrder.
func (uc *FulfillmentUseCase) CreateSale(ctx context.Context, in dto.CreateSaleRequest, userID string) (*dto.SaleResponse, error) {
	started := time.Now()
	payment, err := paymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var sale *entity.Sale
	var movs []*entity.StockMovement
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		sale, movs = nil, nil
		now := time.Now()
		items, err := resolveItems(ctx, repos.Products, in.Items, true)
		if err != nil {
			return err
		}
		customer, err := resolveCustomer(ctx, repos.Customers, in.Customer, now)
		if err != nil {
			return err
		}
		sale = &entity.Sale{
			ID:            uuid.New().String(),
			CustomerName:  strings.TrimSpace(in.Customer.Name),
			CustomerPhone: normalizePhone(in.Customer.Phone),
			PaymentMethod: payment,
			Items:         items,
			TotalAmount:   entity.CalculateTotal(items),
			Comment:       strings.TrimSpace(in.Comment),
			CreatedBy:     userID,
			CreatedAt:     now,
		}
		if customer != nil {
			sale.CustomerID = customer.ID
			if sale.CustomerName == "" {
				sale.CustomerName = customer.Name
			}
		}
		if movs, err = uc.deduct(ctx, repos, sale, walkInNote); err != nil {
			return err
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}
		return registerPurchase(ctx, repos.Customers, sale.CustomerID, sale.TotalAmount, now)
	})
	if err != nil {
		uc.ledger.ObserveRejection(err)
		uc.obs.Metrics.FulfillmentObserved(outcomeOf(err), time.Since(started))
		return nil, err
	}

	uc.obs.Metrics.FulfillmentObserved("completed", time.Since(started))
	return uc.afterCommit(ctx, sale, movs), nil
}

// GetSale devuelve una venta por ID.
func (uc *FulfillmentUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	out := ToSaleResponse(s)
	return &out, nil
}

// ListSales lista ventas de la más reciente a la más antigua.
func (uc *FulfillmentUseCase) ListSales(ctx context.Context, page dto.PageRequest) (*dto.SaleListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.sales.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// deduct registra una salida por producto en orden de producto, para que dos ventas que comparten
// productos tomen los bloqueos de fila en el mismo orden. Las líneas repetidas de un mismo producto
// se suman antes de validar existencias.
func (uc *FulfillmentUseCase) deduct(ctx context.Context, repos repository.Repositories, sale *entity.Sale, note string) ([]*entity.StockMovement, error) {
	totals := make(map[string]int, len(sale.Items))
	ids := make([]string, 0, len(sale.Items))
	for _, line := range sale.Items {
		if _, seen := totals[line.ProductID]; !seen {
			ids = append(ids, line.ProductID)
		}
		totals[line.ProductID] += line.Quantity
	}
	sort.Strings(ids)

	movs := make([]*entity.StockMovement, 0, len(ids))
	for _, id := range ids {
		if totals[id] > entity.MaxQuantity {
			return nil, domain.ErrInvalidQuantity
		}
		mov, err := uc.ledger.ApplyInTx(ctx, repos, inventory.MovementInput{
			ProductID:      id,
			Type:           entity.MovementTypeDeparture,
			Quantity:       totals[id],
			Reason:         entity.ReasonSale,
			OccurredAt:     sale.CreatedAt,
			Note:           note,
			RelatedOrderID: sale.OrderID,
			SaleID:         sale.ID,
			UserID:         sale.CreatedBy,
		})
		if err != nil {
			return nil, err
		}
		movs = append(movs, mov)
	}
	return movs, nil
}

func (uc *FulfillmentUseCase) afterCommit(ctx context.Context, sale *entity.Sale, movs []*entity.StockMovement) *dto.SaleResponse {
	uc.ledger.Notify(ctx, movs...)
	out := ToSaleResponse(sale)
	ev := ports.Event{Type: ports.EventSaleCompleted, Key: sale.ID, OccurredAt: sale.CreatedAt, Payload: out}
	if err := uc.obs.Events.Publish(ctx, ev); err != nil {
		uc.obs.Log.Warn().Err(err).Str("sale_id", sale.ID).Msg("publicar venta")
	}
	uc.obs.Log.Info().Str("sale_id", sale.ID).Str("order_id", sale.OrderID).
		Str("total", sale.TotalAmount.StringFixed(2)).Int("lines", len(sale.Items)).Msg("venta registrada")
	return &out
}

func paymentMethod(m string) (string, error) {
	if m == "" {
		return entity.PaymentCash, nil
	}
	if !entity.IsValidPaymentMethod(m) {
		return "", domain.ErrInvalidInput
	}
	return m, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrUnknownOrder):
		return "unknown_order"
	case errors.Is(err, domain.ErrUnknownProduct), errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	}
	return "error"
}
