package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newTestServices(t *testing.T) (*Service, *mutation.Service) {
	t.Helper()
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	return NewService(customers, products, orders), mutation.NewService(customers, products, orders)
}

func TestHello(t *testing.T) {
	svc, _ := newTestServices(t)
	assert.Equal(t, "Hello, GraphQL!", svc.Hello())
}

func TestOrderTotalAmount(t *testing.T) {
	queries, mutations := newTestServices(t)
	ctx := context.Background()

	customer, err := mutations.CreateCustomer(ctx, mutation.CreateCustomerInput{
		Name:  "Buyer",
		Email: "buyer@example.com",
	})
	require.NoError(t, err)
	book, err := mutations.CreateProduct(ctx, mutation.CreateProductInput{Name: "Book", Price: 10})
	require.NoError(t, err)
	pen, err := mutations.CreateProduct(ctx, mutation.CreateProductInput{Name: "Pen", Price: 5})
	require.NoError(t, err)

	order, err := mutations.CreateOrder(ctx, mutation.CreateOrderInput{
		CustomerID: customer.Customer.ID,
		ProductIDs: []string{book.ID, book.ID, pen.ID},
	})
	require.NoError(t, err)

	view, err := queries.Order(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", view.Customer.Email)
	assert.Len(t, view.Products, 3)
	// 10.00 * 2 + 5.00 * 1
	assert.Equal(t, 25.0, view.TotalAmount)
}

func TestOrderMissing(t *testing.T) {
	queries, _ := newTestServices(t)

	_, err := queries.Order("missing")
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestCustomersAndProductsLists(t *testing.T) {
	queries, mutations := newTestServices(t)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := mutations.CreateCustomer(ctx, mutation.CreateCustomerInput{Name: "N", Email: email})
		require.NoError(t, err)
	}
	_, err := mutations.CreateProduct(ctx, mutation.CreateProductInput{Name: "Lamp", Price: 30})
	require.NoError(t, err)

	customers, err := queries.Customers()
	require.NoError(t, err)
	assert.Len(t, customers, 2)

	products, err := queries.Products()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Lamp", products[0].Name)
}

func TestPendingOrdersSince(t *testing.T) {
	queries, mutations := newTestServices(t)
	ctx := context.Background()

	customer, err := mutations.CreateCustomer(ctx, mutation.CreateCustomerInput{
		Name:  "Buyer",
		Email: "buyer@example.com",
	})
	require.NoError(t, err)
	product, err := mutations.CreateProduct(ctx, mutation.CreateProductInput{Name: "Bag", Price: 40})
	require.NoError(t, err)

	now := time.Now().UTC()
	recentDate := now.Add(-time.Hour)
	staleDate := now.Add(-10 * 24 * time.Hour)

	recent, err := mutations.CreateOrder(ctx, mutation.CreateOrderInput{
		CustomerID: customer.Customer.ID,
		ProductIDs: []string{product.ID},
		OrderDate:  &recentDate,
	})
	require.NoError(t, err)
	_, err = mutations.CreateOrder(ctx, mutation.CreateOrderInput{
		CustomerID: customer.Customer.ID,
		ProductIDs: []string{product.ID},
		OrderDate:  &staleDate,
	})
	require.NoError(t, err)

	views, err := queries.PendingOrdersSince(now.Add(-7 * 24 * time.Hour))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, recent.ID, views[0].Order.ID)
	assert.Equal(t, 40.0, views[0].TotalAmount)
}
