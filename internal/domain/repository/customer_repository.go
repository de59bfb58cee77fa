package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// CustomerRepository puerto del directorio de clientes.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
	// CreateOrGet inserta el cliente o, si su teléfono ya existe, devuelve el registrado.
	// Dos altas concurrentes del mismo teléfono terminan en la misma ficha.
	CreateOrGet(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
	// RegisterPurchase incrementa compras y total gastado de forma atómica.
	RegisterPurchase(ctx context.Context, id string, amount decimal.Decimal, at time.Time) error
}
