package domain

import "errors"

var (
	// Ошибка отсутствующего имени клиента.
	ErrNameRequired = errors.New("name is required")
	// Ошибка отсутствующего email.
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailExists возвращается при нарушении уникальности email.
	ErrEmailExists = errors.New("email already exists")
	// ErrInvalidPhone возвращается при некорректном формате телефона.
	ErrInvalidPhone = errors.New("invalid phone format")
	// Ошибка неположительной цены товара.
	ErrPriceNotPositive = errors.New("price must be positive")
	// Ошибка отрицательного остатка товара.
	ErrStockNegative = errors.New("stock cannot be negative")
	// Ошибка отсутствующего идентификатора клиента в заказе.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствия хотя бы одного товара в заказе.
	ErrItemsRequired = errors.New("at least one product must be selected")
	// Ошибка отсутствующего идентификатора товара в позиции заказа.
	ErrItemProductRequired = errors.New("order item product_id is required")
	// Ошибка при некорректном количестве товара (< 1).
	ErrItemQtyInvalid = errors.New("order item quantity must be at least 1")
	// ErrCustomerNotFound возвращается, если клиент не найден в хранилище.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrProductNotFound возвращается, если товар не найден в хранилище.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в хранилище.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateID сигнализирует о попытке вставить запись с занятым ID.
	ErrDuplicateID = errors.New("entity with this id already exists")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsNotFound проверяет, является ли ошибка отсутствием сущности в хранилище.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}
