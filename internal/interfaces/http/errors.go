package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/dto"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// insufficientStockDetails detalle de INSUFFICIENT_STOCK: qué producto falló y cuánto había.
type insufficientStockDetails struct {
	ProductID string `json:"product_id"`
	Article   string `json:"article"`
	Available int    `json:"available"`
	Requested int    `json:"requested"`
}

// writeError traduce un error de dominio a la respuesta HTTP. Los 5xx se registran con la ruta.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: insufficientStockDetails{
				ProductID: stockErr.ProductID,
				Article:   stockErr.Article,
				Available: stockErr.Available,
				Requested: stockErr.Requested,
			},
		})
	case errors.Is(err, domain.ErrInsufficientStock):
		return respond(c, fiber.StatusConflict, "INSUFFICIENT_STOCK", err)
	case errors.Is(err, domain.ErrInvalidQuantity):
		return respond(c, fiber.StatusBadRequest, "INVALID_QUANTITY", err)
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrRowValidation):
		return respond(c, fiber.StatusBadRequest, "VALIDATION", err)
	case errors.Is(err, domain.ErrUnknownProduct):
		return respond(c, fiber.StatusNotFound, "UNKNOWN_PRODUCT", err)
	case errors.Is(err, domain.ErrUnknownOrder):
		return respond(c, fiber.StatusNotFound, "UNKNOWN_ORDER", err)
	case errors.Is(err, domain.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "NOT_FOUND", err)
	case errors.Is(err, domain.ErrAlreadyCompleted):
		return respond(c, fiber.StatusConflict, "ALREADY_COMPLETED", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return respond(c, fiber.StatusConflict, "INVALID_TRANSITION", err)
	case errors.Is(err, domain.ErrDuplicate):
		return respond(c, fiber.StatusConflict, "DUPLICATE", err)
	case errors.Is(err, domain.ErrUnauthorized):
		return respond(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err)
	case errors.Is(err, domain.ErrForbidden):
		return respond(c, fiber.StatusForbidden, "FORBIDDEN", err)
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func respond(c *fiber.Ctx, status int, code string, err error) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validation(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

// pageFrom lee limit y offset de la query; DefaultPage los acota en el caso de uso.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
}
