package repository

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Products  ProductRepository
	Stock     StockRepository
	Movements StockMovementRepository
	Orders    OrderRepository
	Sales     SaleRepository
	Customers CustomerRepository
}
