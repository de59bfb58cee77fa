package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP del catálogo (protegido).
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log *logger.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// Create POST /api/products. initial_quantity se registra como entrada de compra.
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Article == "" || in.Name == "" {
		return validation(c, "article y name son requeridos")
	}
	out, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/products/:id
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List GET /api/products?search=&category=&include_inactive=true
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), dto.ProductFilter{
		Search:          c.Query("search"),
		Category:        c.Query("category"),
		IncludeInactive: c.QueryBool("include_inactive", false),
	}, pageFrom(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/products/:id. No modifica existencias.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate DELETE /api/products/:id (baja lógica; el historial se conserva).
func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.uc.SetActive(c.Context(), c.Params("id"), false)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Activate POST /api/products/:id/activate
func (h *ProductHandler) Activate(c *fiber.Ctx) error {
	out, err := h.uc.SetActive(c.Context(), c.Params("id"), true)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
