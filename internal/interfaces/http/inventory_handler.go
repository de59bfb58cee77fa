package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP del libro de existencias (protegido).
type InventoryHandler struct {
	movements *inventory.RegisterMovementUseCase
	queries   *inventory.StockQueryUseCase
	importer  *inventory.ImportUseCase
	log       *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	movements *inventory.RegisterMovementUseCase,
	queries *inventory.StockQueryUseCase,
	importer *inventory.ImportUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{movements: movements, queries: queries, importer: importer, log: log}
}

// RecordArrival POST /api/inventory/arrivals
func (h *InventoryHandler) RecordArrival(c *fiber.Ctx) error {
	in, err := h.parseMovement(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.movements.RecordArrival(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordDeparture POST /api/inventory/departures. 409 INSUFFICIENT_STOCK si no alcanza la existencia.
func (h *InventoryHandler) RecordDeparture(c *fiber.Ctx) error {
	in, err := h.parseMovement(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.movements.RecordDeparture(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *InventoryHandler) parseMovement(c *fiber.Ctx) (inventory.MovementInput, error) {
	var req dto.RecordMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return inventory.MovementInput{}, err
	}
	in := inventory.MovementInput{
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		Reason:         req.Reason,
		Note:           req.Note,
		RelatedOrderID: req.RelatedOrderID,
		SupplierName:   req.SupplierName,
		PurchasePrice:  req.PurchasePrice,
		UserID:         GetUserID(c),
	}
	if req.OccurredAt != nil {
		in.OccurredAt = *req.OccurredAt
	}
	return in, nil
}

// AdjustStock POST /api/inventory/adjustments. Sin diferencia responde 200 sin movimiento.
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	var req dto.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.movements.AdjustStock(c.Context(), inventory.AdjustInput{
		ProductID: req.ProductID,
		Target:    req.Quantity,
		Note:      req.Note,
		UserID:    GetUserID(c),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		return c.JSON(fiber.Map{"changed": false})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"changed": true, "movement": out})
}

// ListStock GET /api/inventory/stock?search=&category=&status=all|low|zero|ok
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	out, err := h.queries.ListStock(c.Context(), dto.StockFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	}, pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetStock GET /api/inventory/stock/:productId
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.queries.GetStock(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStockCount GET /api/inventory/stock/low-count
func (h *InventoryHandler) LowStockCount(c *fiber.Ctx) error {
	n, err := h.queries.LowStockCount(c.Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.LowStockCountResponse{Count: n})
}

// SetMinLevel PUT /api/inventory/stock/:productId/min-level
func (h *InventoryHandler) SetMinLevel(c *fiber.Ctx) error {
	var req dto.SetMinLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.queries.SetMinLevel(c.Context(), c.Params("productId"), req.MinLevel)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ProductMovements GET /api/inventory/stock/:productId/movements
func (h *InventoryHandler) ProductMovements(c *fiber.Ctx) error {
	out, err := h.queries.ListProductMovements(c.Context(), c.Params("productId"), pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// VerifyLedger GET /api/inventory/stock/:productId/ledger-check
func (h *InventoryHandler) VerifyLedger(c *fiber.Ctx) error {
	out, err := h.queries.VerifyLedger(c.Context(), c.Params("productId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMovements GET /api/inventory/movements?product_id=&type=&reason=&from=&to=
// from y to aceptan RFC3339 o fecha (2006-01-02); una fecha en to incluye el día completo.
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	f := dto.MovementFilter{
		ProductID: c.Query("product_id"),
		Type:      c.Query("type"),
		Reason:    c.Query("reason"),
	}
	var err error
	if f.From, err = parseTimeQuery(c.Query("from"), false); err != nil {
		return validation(c, "from debe ser una fecha válida")
	}
	if f.To, err = parseTimeQuery(c.Query("to"), true); err != nil {
		return validation(c, "to debe ser una fecha válida")
	}
	out, err := h.queries.ListMovements(c.Context(), f, pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Import POST /api/inventory/import. Acepta multipart con campo "file" (.xlsx o .csv) o JSON {"rows": [...]}.
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	var rows []dto.ImportRow
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return writeError(c, h.log, err)
		}
		defer f.Close()
		rows, err = spreadsheet.ReadRows(fh.Filename, f)
		if errors.Is(err, spreadsheet.ErrUnsupportedFormat) {
			return validation(c, "el archivo debe ser .xlsx o .csv")
		}
		if err != nil {
			return writeError(c, h.log, err)
		}
	} else {
		var req dto.ImportRequest
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
		rows = req.Rows
	}
	if len(rows) == 0 {
		return validation(c, "no hay filas para importar")
	}
	out, err := h.importer.ImportBatch(c.Context(), GetUserID(c), rows)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func parseTimeQuery(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
