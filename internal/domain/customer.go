package domain

import "time"

// Customer — клиент CRM. Email уникален в рамках всей базы и служит
// естественным ключом дедупликации при создании.
type Customer struct {
	ID   string
	Name string
	// Email обязателен; уникальность контролируется и хранилищем, и хендлером.
	Email string
	// Phone опционален; формат проверяется валидатором до записи.
	Phone string
	// Address опционален и нигде не валидируется.
	Address   string
	CreatedAt time.Time
}
