// Package memory implementa los repositorios sobre un estado en memoria protegido por mutex.
// Se usa en desarrollo (STORAGE_DRIVER=memory) y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

type state struct {
	products       map[string]*entity.Product
	articles       map[string]string // artículo -> id
	movements      []*entity.StockMovement
	nextMovementID int64
	orders         map[string]*entity.Order
	sales          map[string]*entity.Sale
	saleByOrder    map[string]string
	customers      map[string]*entity.Customer
	phones         map[string]string
}

func newState() *state {
	return &state{
		products:    map[string]*entity.Product{},
		articles:    map[string]string{},
		orders:      map[string]*entity.Order{},
		sales:       map[string]*entity.Sale{},
		saleByOrder: map[string]string{},
		customers:   map[string]*entity.Customer{},
		phones:      map[string]string{},
	}
}

// clone copia el estado para trabajar sobre él dentro de una transacción.
// Movimientos y ventas son inmutables, así que se comparten los punteros.
func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for k, v := range s.articles {
		c.articles[k] = v
	}
	c.movements = append(make([]*entity.StockMovement, 0, len(s.movements)+4), s.movements...)
	c.nextMovementID = s.nextMovementID
	for id, o := range s.orders {
		c.orders[id] = copyOrder(o)
	}
	for id, sale := range s.sales {
		c.sales[id] = sale
	}
	for k, v := range s.saleByOrder {
		c.saleByOrder[k] = v
	}
	for id, cu := range s.customers {
		cp := *cu
		c.customers[id] = &cp
	}
	for k, v := range s.phones {
		c.phones[k] = v
	}
	return c
}

// Store estado compartido de la aplicación.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve repositorios fuera de transacción (cada llamada toma el lock).
func (s *Store) Repositories() repository.Repositories {
	return reposFor(handle{store: s})
}

// TxRunner construye el ejecutor de transacciones del almacén.
func (s *Store) TxRunner() *TxRunner {
	return &TxRunner{store: s}
}

// TxRunner serializa las transacciones: trabaja sobre una copia y la publica solo si fn no falla.
type TxRunner struct {
	store *Store
}

// Run ejecuta fn con repositorios atados a la transacción. Un error descarta todos los cambios.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	work := r.store.st.clone()
	if err := fn(reposFor(handle{store: r.store, tx: work})); err != nil {
		return err
	}
	r.store.st = work
	return nil
}

// handle resuelve el estado sobre el que opera un repositorio.
type handle struct {
	store *Store
	tx    *state // nil fuera de transacción
}

func (h handle) do(fn func(st *state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	return fn(h.store.st)
}

func reposFor(h handle) repository.Repositories {
	return repository.Repositories{
		Products:  &productRepo{h: h},
		Stock:     &stockRepo{h: h},
		Movements: &movementRepo{h: h},
		Orders:    &orderRepo{h: h},
		Sales:     &saleRepo{h: h},
		Customers: &customerRepo{h: h},
	}
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
