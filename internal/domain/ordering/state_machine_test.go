package ordering_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/ordering"
)

func TestTransition_DesdePendientes(t *testing.T) {
	for _, from := range []string{entity.OrderStatusNew, entity.OrderStatusProcessing} {
		assert.NoError(t, ordering.Transition(from, entity.OrderStatusProcessing), from)
		assert.NoError(t, ordering.Transition(from, entity.OrderStatusCancelled), from)
		assert.NoError(t, ordering.Transition(from, entity.OrderStatusCompleted), from)
		assert.ErrorIs(t, ordering.Transition(from, entity.OrderStatusNew), domain.ErrInvalidTransition, from)
	}
}

func TestTransition_DesdeTerminales(t *testing.T) {
	assert.ErrorIs(t, ordering.Transition(entity.OrderStatusCompleted, entity.OrderStatusCompleted), domain.ErrAlreadyCompleted)
	assert.ErrorIs(t, ordering.Transition(entity.OrderStatusCompleted, entity.OrderStatusCancelled), domain.ErrInvalidTransition)
	assert.ErrorIs(t, ordering.Transition(entity.OrderStatusCancelled, entity.OrderStatusCompleted), domain.ErrInvalidTransition)
	assert.ErrorIs(t, ordering.Transition(entity.OrderStatusCancelled, entity.OrderStatusProcessing), domain.ErrInvalidTransition)
}

func TestTransition_EstadoDesconocido(t *testing.T) {
	assert.ErrorIs(t, ordering.Transition("draft", entity.OrderStatusCompleted), domain.ErrInvalidTransition)
	assert.ErrorIs(t, ordering.Transition(entity.OrderStatusNew, "shipped"), domain.ErrInvalidTransition)
	assert.False(t, ordering.IsValidStatus("shipped"))
	assert.True(t, ordering.IsValidStatus(entity.OrderStatusCancelled))
}
