package rest

import (
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/query"
)

// createCustomerRequest — тело POST /api/v1/customers.
type createCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// createProductRequest — тело POST /api/v1/products. Указатель на Stock
// отличает «ноль на складе» от «остаток не указан».
type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       *int32  `json:"stock"`
}

// createOrderRequest — тело POST /api/v1/orders.
type createOrderRequest struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date"`
}

type customerPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type productPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int32     `json:"stock"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
}

type orderPayload struct {
	ID          string           `json:"id"`
	Customer    customerPayload  `json:"customer"`
	Products    []productPayload `json:"products"`
	Status      string           `json:"status"`
	OrderDate   time.Time        `json:"order_date"`
	TotalAmount float64          `json:"total_amount"`
	CreatedAt   time.Time        `json:"created_at"`
}

// createCustomerResponse повторяет структурный контракт мутации: при
// бизнес-отказе customer равен null, а message объясняет причину.
type createCustomerResponse struct {
	Customer *customerPayload `json:"customer"`
	Message  string           `json:"message"`
}

type bulkCreateCustomersResponse struct {
	Customers []customerPayload `json:"customers"`
	Errors    []string          `json:"errors"`
}

func toCustomerPayload(customer domain.Customer) customerPayload {
	return customerPayload{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
	}
}

func toProductPayload(product domain.Product) productPayload {
	return productPayload{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price(),
		Stock:       product.Stock,
		InStock:     product.InStock(),
		CreatedAt:   product.CreatedAt,
	}
}

func toOrderPayload(view query.OrderView) orderPayload {
	products := make([]productPayload, 0, len(view.Products))
	for _, product := range view.Products {
		products = append(products, toProductPayload(product))
	}
	return orderPayload{
		ID:          view.Order.ID,
		Customer:    toCustomerPayload(view.Customer),
		Products:    products,
		Status:      string(view.Order.Status),
		OrderDate:   view.Order.OrderDate,
		TotalAmount: view.TotalAmount,
		CreatedAt:   view.Order.CreatedAt,
	}
}
