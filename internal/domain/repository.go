package domain

import "time"

// CustomerRepository описывает шлюз персистентности для клиентов.
type CustomerRepository interface {
	// Insert сохраняет нового клиента. Возвращает ErrEmailExists при
	// нарушении уникальности email.
	Insert(customer Customer) error
	// InsertMany сохраняет пачку клиентов в одной транзакции.
	// Валидация и дедупликация записей выполняются до вызова.
	InsertMany(customers []Customer) error
	// Get возвращает клиента по идентификатору или ErrCustomerNotFound.
	Get(id string) (Customer, error)
	// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
	GetByEmail(email string) (Customer, error)
	// ExistsByEmail проверяет занятость email без чтения всей записи.
	ExistsByEmail(email string) (bool, error)
	List() ([]Customer, error)
	Count() (int, error)
}

// ProductRepository описывает шлюз персистентности для товаров.
type ProductRepository interface {
	Insert(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	List() ([]Product, error)
	Count() (int, error)
}

// OrderRepository описывает шлюз персистентности для заказов.
type OrderRepository interface {
	// Create сохраняет заказ вместе со всеми позициями в одной транзакции:
	// либо записываются заказ и все позиции, либо ничего.
	Create(order Order) error
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	List() ([]Order, error)
	// ListPendingSince возвращает pending-заказы, оформленные не раньше since.
	ListPendingSince(since time.Time) ([]Order, error)
	Count() (int, error)
}
