// Пакет validation содержит чистые проверки полей и записей.
// Ни одна функция пакета не обращается к хранилищу и не имеет побочных эффектов.
package validation

import (
	"regexp"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// Допустимые форматы: +1234567890 (10-15 цифр) или 123-456-7890.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$|^[0-9]{3}-[0-9]{3}-[0-9]{4}$`)

// Phone проверяет формат телефона. Пустое значение допустимо: телефон опционален.
func Phone(phone string) error {
	if phone == "" {
		return nil
	}
	if !phonePattern.MatchString(phone) {
		return domain.ErrInvalidPhone
	}
	return nil
}

// Price проверяет, что цена в минимальных единицах строго положительна.
func Price(priceMinor int64) error {
	if priceMinor <= 0 {
		return domain.ErrPriceNotPositive
	}
	return nil
}

// Stock проверяет, что остаток не отрицателен.
func Stock(stock int32) error {
	if stock < 0 {
		return domain.ErrStockNegative
	}
	return nil
}
