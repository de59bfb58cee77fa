package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// SaleHandler ventas de mostrador, consulta de ventas y comprobante PDF (protegido).
type SaleHandler struct {
	fulfillment *sales.FulfillmentUseCase
	receipts    *sales.ReceiptUseCase
	log         *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(fulfillment *sales.FulfillmentUseCase, receipts *sales.ReceiptUseCase, log *logger.Logger) *SaleHandler {
	return &SaleHandler{fulfillment: fulfillment, receipts: receipts, log: log}
}

// Create POST /api/sales (venta sin pedido previo).
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.fulfillment.CreateSale(c.Context(), in, GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.fulfillment.ListSales(c.Context(), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.fulfillment.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Receipt GET /api/sales/:id/receipt (application/pdf).
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipts.DownloadReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
