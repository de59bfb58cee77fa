package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// OrderHandler maneja pedidos: creación pública desde la tienda web y ciclo de vida en la consola.
type OrderHandler struct {
	orders      *sales.OrderUseCase
	fulfillment *sales.FulfillmentUseCase
	log         *logger.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(orders *sales.OrderUseCase, fulfillment *sales.FulfillmentUseCase, log *logger.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, fulfillment: fulfillment, log: log}
}

// CreateFromStorefront POST /api/storefront/orders (público). El origen siempre es website.
func (h *OrderHandler) CreateFromStorefront(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Source = entity.OrderSourceWebsite
	out, err := h.orders.CreateOrder(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Create POST /api/orders. Sin source se asume offline (pedido tomado en el local).
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Source == "" {
		in.Source = entity.OrderSourceOffline
	}
	out, err := h.orders.CreateOrder(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/orders?status=&source=
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.orders.ListOrders(c.Context(), dto.OrderFilter{
		Status: c.Query("status"),
		Source: c.Query("source"),
	}, pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// StartProcessing POST /api/orders/:id/processing
func (h *OrderHandler) StartProcessing(c *fiber.Ctx) error {
	out, err := h.orders.StartProcessing(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel POST /api/orders/:id/cancel. No toca existencias.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.orders.CancelOrder(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Complete POST /api/orders/:id/complete. Descuenta existencias y registra la venta en una transacción.
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	var in dto.CompleteOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.fulfillment.CompleteOrder(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AttachDocument PUT /api/orders/:id/documents (número y fecha de factura o acta).
func (h *OrderHandler) AttachDocument(c *fiber.Ctx) error {
	var in dto.AttachDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.orders.AttachDocument(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
