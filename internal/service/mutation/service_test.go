package mutation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newTestService(t *testing.T, options ...Option) (*Service, domain.OrderRepository) {
	t.Helper()
	orders := memory.NewOrderRepository()
	svc := NewService(
		memory.NewCustomerRepository(),
		memory.NewProductRepository(),
		orders,
		options...,
	)
	return svc, orders
}

func TestCreateCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateCustomer(ctx, CreateCustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "+1234567890",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Customer)
	assert.Equal(t, "Customer created successfully", res.Message)
	assert.NotEmpty(t, res.Customer.ID)
	assert.Equal(t, "alice@example.com", res.Customer.Email)

	stored, err := svc.customers.Get(res.Customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
}

func TestCreateCustomerBusinessRejections(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Taken", Email: "taken@example.com"})
	require.NoError(t, err)

	cases := []struct {
		name    string
		input   CreateCustomerInput
		message string
	}{
		{
			name:    "missing name",
			input:   CreateCustomerInput{Email: "a@example.com"},
			message: "Name is required",
		},
		{
			name:    "missing email",
			input:   CreateCustomerInput{Name: "A"},
			message: "Email is required",
		},
		{
			name:    "duplicate email",
			input:   CreateCustomerInput{Name: "B", Email: "taken@example.com"},
			message: "Email already exists",
		},
		{
			name:    "bad phone",
			input:   CreateCustomerInput{Name: "C", Email: "c@example.com", Phone: "12345"},
			message: "Invalid phone format. Use +1234567890 or 123-456-7890",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.CreateCustomer(ctx, tc.input)
			require.NoError(t, err)
			assert.Nil(t, res.Customer)
			assert.Equal(t, tc.message, res.Message)
		})
	}

	// Отклонённые записи не должны были ничего сохранить.
	count, err := svc.customers.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateCustomerDuplicateCheckBeforePhone(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "First", Email: "dup@example.com"})
	require.NoError(t, err)

	// Дубликат email с невалидным телефоном: сообщение о дубликате важнее.
	res, err := svc.CreateCustomer(ctx, CreateCustomerInput{
		Name:  "Second",
		Email: "dup@example.com",
		Phone: "bad",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Customer)
	assert.Equal(t, "Email already exists", res.Message)
}

func TestBulkCreateCustomersPartialSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Existing", Email: "old@example.com"})
	require.NoError(t, err)

	res, err := svc.BulkCreateCustomers(ctx, []CreateCustomerInput{
		{Name: "One", Email: "one@example.com", Phone: "+1234567890"},
		{Name: "Two", Email: "old@example.com"},
		{Name: "", Email: "three@example.com"},
		{Name: "Four", Email: "four@example.com", Phone: "not-a-phone"},
		{Name: "Five", Email: "five@example.com"},
		{Name: "Six", Email: "five@example.com"},
	})
	require.NoError(t, err)

	require.Len(t, res.Customers, 2)
	assert.Equal(t, "one@example.com", res.Customers[0].Email)
	assert.Equal(t, "five@example.com", res.Customers[1].Email)

	require.Len(t, res.Errors, 4)
	assert.Equal(t, "Customer 2: Email old@example.com already exists", res.Errors[0])
	assert.Equal(t, "Customer 3: Name is required", res.Errors[1])
	assert.Equal(t, "Customer 4: Invalid phone format. Use +1234567890 or 123-456-7890", res.Errors[2])
	assert.Equal(t, "Customer 6: Email five@example.com already exists", res.Errors[3])

	// Валидное подмножество закоммичено несмотря на отказы.
	count, err := svc.customers.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestBulkCreateCustomersEmptyInput(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.BulkCreateCustomers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Customers)
	assert.Empty(t, res.Errors)
}

func TestCreateProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:        "Keyboard",
		Description: "Mechanical",
		Price:       49.99,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4999), product.PriceMinor)
	assert.InDelta(t, 49.99, product.Price(), 0.0001)
	// Остаток не указан: товар доступен.
	assert.Equal(t, int32(1), product.Stock)
	assert.True(t, product.InStock())

	stock := int32(0)
	outOfStock, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Cable", Price: 5, Stock: &stock})
	require.NoError(t, err)
	assert.False(t, outOfStock.InStock())
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Price: 10})
	require.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Free", Price: 0})
	require.ErrorIs(t, err, domain.ErrPriceNotPositive)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Refund", Price: -3})
	require.ErrorIs(t, err, domain.ErrPriceNotPositive)

	// Положительная цена меньше половины цента округляется до нуля минорных
	// единиц и отклоняется тем же правилом.
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Dust", Price: 0.004})
	require.ErrorIs(t, err, domain.ErrPriceNotPositive)

	stock := int32(-1)
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Ghost", Price: 1, Stock: &stock})
	require.ErrorIs(t, err, domain.ErrStockNegative)

	count, err := svc.products.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateOrder(t *testing.T) {
	svc, orders := newTestService(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Buyer", Email: "buyer@example.com"})
	require.NoError(t, err)
	laptop, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Laptop", Price: 999.99})
	require.NoError(t, err)
	mouse, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Mouse", Price: 19.99})
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: customer.Customer.ID,
		// Повтор товара — отдельная позиция.
		ProductIDs: []string{laptop.ID, mouse.ID, laptop.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 3)
	for _, item := range order.Items {
		assert.Equal(t, order.ID, item.OrderID)
		assert.Equal(t, int32(1), item.Quantity)
	}

	stored, err := orders.Get(order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 3)
}

func TestCreateOrderCollaboratorChecks(t *testing.T) {
	svc, orders := newTestService(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Buyer", Email: "buyer@example.com"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Pen", Price: 2.5})
	require.NoError(t, err)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{CustomerID: "missing", ProductIDs: []string{product.ID}})
	require.ErrorIs(t, err, domain.ErrCustomerNotFound)
	assert.Contains(t, err.Error(), "customer with ID missing does not exist")

	_, err = svc.CreateOrder(ctx, CreateOrderInput{CustomerID: customer.Customer.ID, ProductIDs: nil})
	require.ErrorIs(t, err, domain.ErrItemsRequired)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: customer.Customer.ID,
		ProductIDs: []string{product.ID, "ghost"},
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Contains(t, err.Error(), "product with ID ghost does not exist")

	// Ни одна отклонённая попытка не должна была оставить заказ.
	count, err := orders.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMutationsEnqueueOutboxEvents(t *testing.T) {
	outbox := memory.NewOutboxRepository()
	svc, _ := newTestService(t, WithOutbox(outbox))
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Book", Price: 12})
	require.NoError(t, err)
	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		CustomerID: customer.Customer.ID,
		ProductIDs: []string{product.ID},
	})
	require.NoError(t, err)

	pending, err := outbox.PullPending(10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	types := make([]string, 0, len(pending))
	for _, msg := range pending {
		types = append(types, msg.EventType)
	}
	assert.ElementsMatch(t, []string{"customer.created", "product.created", "order.created"}, types)
}

func TestWithClockControlsTimestamps(t *testing.T) {
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, WithClock(func() time.Time { return fixed }))

	res, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{Name: "T", Email: "t@example.com"})
	require.NoError(t, err)
	assert.Equal(t, fixed, res.Customer.CreatedAt)
}
