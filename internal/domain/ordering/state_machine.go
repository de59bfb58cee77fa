// Package ordering contiene las reglas de transición del ciclo de vida de un pedido.
package ordering

import (
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

var allowed = map[string]map[string]bool{
	entity.OrderStatusNew: {
		entity.OrderStatusProcessing: true,
		entity.OrderStatusCancelled:  true,
		entity.OrderStatusCompleted:  true,
	},
	entity.OrderStatusProcessing: {
		entity.OrderStatusProcessing: true,
		entity.OrderStatusCancelled:  true,
		entity.OrderStatusCompleted:  true,
	},
}

// Transition valida el paso de from a to.
// Completar un pedido ya completado devuelve ErrAlreadyCompleted; cualquier otra salida
// desde un estado terminal, o hacia un estado desconocido, devuelve ErrInvalidTransition.
// La transición a completed solo debe ejecutarla el flujo de cumplimiento.
func Transition(from, to string) error {
	if from == entity.OrderStatusCompleted && to == entity.OrderStatusCompleted {
		return domain.ErrAlreadyCompleted
	}
	if next, ok := allowed[from]; ok && next[to] {
		return nil
	}
	return domain.ErrInvalidTransition
}

// IsValidStatus indica si s es un estado conocido.
func IsValidStatus(s string) bool {
	switch s {
	case entity.OrderStatusNew, entity.OrderStatusProcessing, entity.OrderStatusCompleted, entity.OrderStatusCancelled:
		return true
	}
	return false
}
