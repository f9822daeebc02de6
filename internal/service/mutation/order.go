package mutation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

// CreateOrderInput — вход мутации CreateOrder. Повторы в ProductIDs
// допустимы и превращаются в отдельные позиции заказа.
// Nil-OrderDate означает «сейчас».
type CreateOrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time
}

// CreateOrder создаёт заказ в статусе pending со всеми позициями атомарно.
// Перед записью проверяется существование клиента и каждого товара;
// остаток товара при этом не проверяется и не списывается.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (domain.Order, error) {
	started := s.now()

	if in.CustomerID == "" {
		s.observe(opCreateOrder, metrics.ResultRejected, started)
		return domain.Order{}, fmt.Errorf("create order: %w", domain.ErrCustomerRequired)
	}

	if _, err := s.customers.Get(in.CustomerID); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			s.observe(opCreateOrder, metrics.ResultRejected, started)
			return domain.Order{}, fmt.Errorf("customer with ID %s does not exist: %w", in.CustomerID, domain.ErrCustomerNotFound)
		}
		s.observe(opCreateOrder, metrics.ResultError, started)
		return domain.Order{}, fmt.Errorf("load customer: %w", err)
	}

	if len(in.ProductIDs) == 0 {
		s.observe(opCreateOrder, metrics.ResultRejected, started)
		return domain.Order{}, fmt.Errorf("create order: %w", domain.ErrItemsRequired)
	}

	for _, productID := range in.ProductIDs {
		if _, err := s.products.Get(productID); err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				s.observe(opCreateOrder, metrics.ResultRejected, started)
				return domain.Order{}, fmt.Errorf("product with ID %s does not exist: %w", productID, domain.ErrProductNotFound)
			}
			s.observe(opCreateOrder, metrics.ResultError, started)
			return domain.Order{}, fmt.Errorf("load product: %w", err)
		}
	}

	now := s.now().UTC()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = in.OrderDate.UTC()
	}

	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: in.CustomerID,
		Status:     domain.OrderStatusPending,
		OrderDate:  orderDate,
		CreatedAt:  now,
		UpdatedAt:  now,
		Items:      make([]domain.OrderItem, 0, len(in.ProductIDs)),
	}
	for _, productID := range in.ProductIDs {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.NewString(),
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  1,
			CreatedAt: now,
		})
	}

	if err := s.orders.Create(order); err != nil {
		s.observe(opCreateOrder, metrics.ResultError, started)
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	s.enqueueEvent(aggregateOrder, order.ID, eventOrderCreated, orderEventPayload(order))
	s.observe(opCreateOrder, metrics.ResultSuccess, started)
	return order, nil
}

func orderEventPayload(order domain.Order) any {
	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	return struct {
		ID         string   `json:"id"`
		CustomerID string   `json:"customer_id"`
		Status     string   `json:"status"`
		ProductIDs []string `json:"product_ids"`
	}{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Status:     string(order.Status),
		ProductIDs: productIDs,
	}
}
