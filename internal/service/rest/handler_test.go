package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/service/query"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()

	mutations := mutation.NewService(customers, products, orders)
	queries := query.NewService(customers, products, orders)
	return NewRouter(NewHandler(mutations, queries, nil))
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), into))
}

func TestHelloEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/hello", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decode(t, rec, &body)
	assert.Equal(t, "Hello, GraphQL!", body["message"])
}

func TestCreateCustomerEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Alice",
		"email": "alice@example.com",
		"phone": "+1234567890",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Customer *customerPayload `json:"customer"`
		Message  string           `json:"message"`
	}
	decode(t, rec, &body)
	require.NotNil(t, body.Customer)
	assert.Equal(t, "Customer created successfully", body.Message)
	assert.Equal(t, "alice@example.com", body.Customer.Email)

	// Повтор того же email — HTTP 200 с null-клиентом, а не ошибка запроса.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Alice Again",
		"email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &body)
	assert.Nil(t, body.Customer)
	assert.Equal(t, "Email already exists", body.Message)
}

func TestBulkCreateCustomersEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers/bulk", []gin.H{
		{"name": "One", "email": "one@example.com"},
		{"name": "Two", "email": "one@example.com"},
		{"name": "", "email": "three@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body bulkCreateCustomersResponse
	decode(t, rec, &body)
	require.Len(t, body.Customers, 1)
	assert.Equal(t, "one@example.com", body.Customers[0].Email)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "Customer 2: Email one@example.com already exists", body.Errors[0])
	assert.Equal(t, "Customer 3: Name is required", body.Errors[1])
}

func TestCreateProductEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":  "Laptop",
		"price": 999.99,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var product productPayload
	decode(t, rec, &product)
	assert.Equal(t, 999.99, product.Price)
	assert.True(t, product.InStock)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{
		"name":  "Freebie",
		"price": 0,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var failure map[string]string
	decode(t, rec, &failure)
	assert.Contains(t, failure["error"], "price must be positive")
}

func TestCreateOrderEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/customers", gin.H{
		"name":  "Buyer",
		"email": "buyer@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Customer *customerPayload `json:"customer"`
	}
	decode(t, rec, &created)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/products", gin.H{"name": "Book", "price": 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	var book productPayload
	decode(t, rec, &book)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": created.Customer.ID,
		"product_ids": []string{book.ID, book.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order orderPayload
	decode(t, rec, &order)
	assert.Equal(t, "pending", order.Status)
	assert.Len(t, order.Products, 2)
	assert.Equal(t, 20.0, order.TotalAmount)

	// Несуществующий коллаборатор — 404 с объясняющим текстом.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": created.Customer.ID,
		"product_ids": []string{"ghost"},
	})
	require.Equal(t, http.StatusNotFound, rec.Code)

	var failure map[string]string
	decode(t, rec, &failure)
	assert.Contains(t, failure["error"], "product with ID ghost does not exist")

	// Пустой список товаров — 400.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/orders", gin.H{
		"customer_id": created.Customer.ID,
		"product_ids": []string{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetEndpointsNotFound(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/customers/missing",
		"/api/v1/products/missing",
		"/api/v1/orders/missing",
	} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestListOrdersPendingSinceValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/orders?pending_since=not-a-date", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/orders?pending_since=2025-01-01T00:00:00Z", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
