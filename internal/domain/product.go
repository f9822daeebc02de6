package domain

import "time"

// Product описывает товар каталога. Цена хранится в минимальных денежных
// единицах (центах), пересчёт в основные единицы выполняется на границе API.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена за единицу в минимальных денежных единицах, строго > 0.
	PriceMinor int64
	// Stock носит информационный характер: CreateOrder его не уменьшает.
	Stock     int32
	CreatedAt time.Time
}

// InStock — производный флаг наличия товара; нигде не хранится.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Price возвращает цену в основных денежных единицах для API-слоя.
func (p Product) Price() float64 {
	return float64(p.PriceMinor) / 100
}
