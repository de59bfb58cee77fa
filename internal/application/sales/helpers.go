package sales

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// resolveItems valida las líneas solicitadas contra el catálogo y completa artículo, nombre y precio.
// requireActive rechaza productos dados de baja (pedidos y ventas nuevas).
func resolveItems(ctx context.Context, products repository.ProductRepository, reqs []dto.OrderItemRequest, requireActive bool) ([]entity.OrderItem, error) {
	if len(reqs) == 0 {
		return nil, domain.ErrInvalidInput
	}
	items := make([]entity.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		if r.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if r.Quantity <= 0 || r.Quantity > entity.MaxQuantity {
			return nil, domain.ErrInvalidQuantity
		}
		p, err := products.GetByID(ctx, r.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil || (requireActive && !p.IsActive) {
			return nil, domain.ErrUnknownProduct
		}
		price := p.Price
		if r.UnitPrice != nil && !r.UnitPrice.IsZero() {
			if r.UnitPrice.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			price = *r.UnitPrice
		}
		items = append(items, entity.OrderItem{
			ProductID: p.ID,
			Article:   p.Article,
			Name:      p.Name,
			Quantity:  r.Quantity,
			UnitPrice: price,
		})
	}
	return items, nil
}

// resolveCustomer busca el cliente por teléfono o lo crea. Sin teléfono no hay ficha de cliente.
func resolveCustomer(ctx context.Context, customers repository.CustomerRepository, in dto.CustomerInput, now time.Time) (*entity.Customer, error) {
	phone := normalizePhone(in.Phone)
	if phone == "" {
		return nil, nil
	}
	name := strings.TrimSpace(in.Name)
	c, err := customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if c.Name == "" && name != "" {
			c.Name = name
			c.UpdatedAt = now
			if err := customers.Update(ctx, c); err != nil {
				return nil, err
			}
		}
		return c, nil
	}
	c = &entity.Customer{
		ID:         uuid.New().String(),
		Name:       name,
		Phone:      phone,
		TotalSpent: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return customers.CreateOrGet(ctx, c)
}

// registerPurchase acumula la venta en las estadísticas del cliente, si lo hay.
func registerPurchase(ctx context.Context, customers repository.CustomerRepository, customerID string, amount decimal.Decimal, at time.Time) error {
	if customerID == "" {
		return nil
	}
	return customers.RegisterPurchase(ctx, customerID, amount, at)
}

// normalizePhone conserva solo dígitos y un '+' inicial.
func normalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		if unicode.IsDigit(r) || (i == 0 && r == '+') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func toItemResponses(items []entity.OrderItem) []dto.OrderItemResponse {
	out := make([]dto.OrderItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.OrderItemResponse{
			ProductID: it.ProductID,
			Article:   it.Article,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
	}
	return out
}

// ToOrderResponse mapea un pedido a su DTO.
func ToOrderResponse(o *entity.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:            o.ID,
		Status:        o.Status,
		Source:        o.Source,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PaymentMethod: o.PaymentMethod,
		Items:         toItemResponses(o.Items),
		TotalAmount:   o.TotalAmount,
		Comment:       o.Comment,
		CancelReason:  o.CancelReason,
		Documents: dto.DocumentsResponse{
			InvoiceNumber: o.Documents.InvoiceNumber,
			InvoiceDate:   o.Documents.InvoiceDate,
			ActNumber:     o.Documents.ActNumber,
			ActDate:       o.Documents.ActDate,
		},
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		CompletedAt: o.CompletedAt,
	}
}

// ToSaleResponse mapea una venta a su DTO.
func ToSaleResponse(s *entity.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:            s.ID,
		OrderID:       s.OrderID,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		CustomerPhone: s.CustomerPhone,
		PaymentMethod: s.PaymentMethod,
		Items:         toItemResponses(s.Items),
		TotalAmount:   s.TotalAmount,
		Comment:       s.Comment,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
	}
}
