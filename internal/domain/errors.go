package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Libro de existencias
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrUnknownProduct    = errors.New("producto desconocido")

	// Ciclo de vida del pedido
	ErrAlreadyCompleted  = errors.New("el pedido ya fue completado")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrUnknownOrder      = errors.New("pedido desconocido")

	// Importación masiva (por fila, no fatal)
	ErrRowValidation = errors.New("fila inválida")
)

// InsufficientStockError indica qué producto no tiene existencias suficientes.
// errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	ProductID string
	Article   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d", e.Article, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// RowError error de validación de una fila de importación.
type RowError struct {
	Row     int
	Article string
	Reason  string
}

func (e *RowError) Error() string {
	if e.Article == "" {
		return fmt.Sprintf("fila %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("fila %d (%s): %s", e.Row, e.Article, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrRowValidation }
