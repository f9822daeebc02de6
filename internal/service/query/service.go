// Package query реализует read-модель CRM: списки и точечные выборки
// клиентов, товаров и заказов с агрегированными полями.
package query

import (
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

const helloMessage = "Hello, GraphQL!"

// OrderView — заказ, обогащённый коллабораторами для выдачи наружу.
// TotalAmount всегда пересчитывается из текущих цен товаров.
type OrderView struct {
	Order       domain.Order
	Customer    domain.Customer
	Products    []domain.Product
	TotalAmount float64
}

// Service отвечает на запросы чтения поверх тех же шлюзов персистентности,
// что и мутации.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
}

// NewService создаёт read-сервис поверх переданных репозиториев.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
	}
}

// Hello — диагностический резолвер для проверки доступности API.
func (s *Service) Hello() string {
	return helloMessage
}

// Customers возвращает всех клиентов в стабильном порядке.
func (s *Service) Customers() ([]domain.Customer, error) {
	return s.customers.List()
}

// Customer возвращает клиента по идентификатору.
func (s *Service) Customer(id string) (domain.Customer, error) {
	return s.customers.Get(id)
}

// Products возвращает все товары в стабильном порядке.
func (s *Service) Products() ([]domain.Product, error) {
	return s.products.List()
}

// Product возвращает товар по идентификатору.
func (s *Service) Product(id string) (domain.Product, error) {
	return s.products.Get(id)
}

// Orders возвращает все заказы, обогащённые клиентом, товарами и суммой.
func (s *Service) Orders() ([]OrderView, error) {
	orders, err := s.orders.List()
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.enrichOrders(orders)
}

// Order возвращает один заказ с коллабораторами.
func (s *Service) Order(id string) (OrderView, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return OrderView{}, err
	}
	return s.enrichOrder(order)
}

// PendingOrdersSince возвращает pending-заказы, оформленные не раньше since.
// Используется сканером напоминаний.
func (s *Service) PendingOrdersSince(since time.Time) ([]OrderView, error) {
	orders, err := s.orders.ListPendingSince(since)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	return s.enrichOrders(orders)
}

func (s *Service) enrichOrders(orders []domain.Order) ([]OrderView, error) {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.enrichOrder(order)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) enrichOrder(order domain.Order) (OrderView, error) {
	customer, err := s.customers.Get(order.CustomerID)
	if err != nil {
		return OrderView{}, fmt.Errorf("load customer %s: %w", order.CustomerID, err)
	}

	view := OrderView{
		Order:    order,
		Customer: customer,
		Products: make([]domain.Product, 0, len(order.Items)),
	}
	var totalMinor int64
	for _, item := range order.Items {
		product, err := s.products.Get(item.ProductID)
		if err != nil {
			return OrderView{}, fmt.Errorf("load product %s: %w", item.ProductID, err)
		}
		view.Products = append(view.Products, product)
		totalMinor += product.PriceMinor * int64(item.Quantity)
	}
	view.TotalAmount = float64(totalMinor) / 100
	return view, nil
}
