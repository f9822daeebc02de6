package mutation

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
	"github.com/vladislavdragonenkov/crm/internal/validation"
)

// CreateProductInput — вход мутации CreateProduct. Price приходит в базовых
// единицах валюты и конвертируется в минорные единицы на этой границе.
// Nil-Stock означает «остаток не указан»: товар считается доступным.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       *int32
}

const defaultStock int32 = 1

// CreateProduct создаёт товар. В отличие от клиентских мутаций ошибки
// валидации здесь распространяются как ошибки запроса.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	started := s.now()

	if strings.TrimSpace(in.Name) == "" {
		s.observe(opCreateProduct, metrics.ResultRejected, started)
		return domain.Product{}, fmt.Errorf("create product: %w", domain.ErrNameRequired)
	}

	if in.Price <= 0 {
		s.observe(opCreateProduct, metrics.ResultRejected, started)
		return domain.Product{}, fmt.Errorf("create product: %w", domain.ErrPriceNotPositive)
	}

	// Цены храним в минорных единицах, поэтому положительная цена меньше
	// половины цента округляется до нуля и тоже отклоняется.
	priceMinor := int64(math.Round(in.Price * 100))
	if err := validation.Price(priceMinor); err != nil {
		s.observe(opCreateProduct, metrics.ResultRejected, started)
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	stock := defaultStock
	if in.Stock != nil {
		if err := validation.Stock(*in.Stock); err != nil {
			s.observe(opCreateProduct, metrics.ResultRejected, started)
			return domain.Product{}, fmt.Errorf("create product: %w", err)
		}
		stock = *in.Stock
	}

	product := domain.Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		PriceMinor:  priceMinor,
		Stock:       stock,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.products.Insert(product); err != nil {
		s.observe(opCreateProduct, metrics.ResultError, started)
		return domain.Product{}, fmt.Errorf("insert product: %w", err)
	}

	s.enqueueEvent(aggregateProduct, product.ID, eventProductCreated, productEventPayload(product))
	s.observe(opCreateProduct, metrics.ResultSuccess, started)
	return product, nil
}

func productEventPayload(product domain.Product) any {
	return struct {
		ID         string `json:"id"`
		Name       string `json:"name"`
		PriceMinor int64  `json:"price_minor"`
		Stock      int32  `json:"stock"`
	}{
		ID:         product.ID,
		Name:       product.Name,
		PriceMinor: product.PriceMinor,
		Stock:      product.Stock,
	}
}
