// Package rest публикует мутации и запросы CRM как HTTP/JSON API.
package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/service/mutation"
	"github.com/vladislavdragonenkov/crm/internal/service/query"
)

// Handler связывает HTTP-маршруты с сервисами мутаций и чтения.
type Handler struct {
	mutations *mutation.Service
	queries   *query.Service
	logger    *log.Entry
}

// NewHandler создаёт HTTP-обработчик CRM.
func NewHandler(mutations *mutation.Service, queries *query.Service, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "rest")
	}
	return &Handler{
		mutations: mutations,
		queries:   queries,
		logger:    logger,
	}
}

// Register навешивает все маршруты API на переданный роутер.
func (h *Handler) Register(router gin.IRouter) {
	router.GET("/hello", h.hello)

	api := router.Group("/api/v1")
	api.GET("/hello", h.hello)
	api.POST("/customers", h.createCustomer)
	api.POST("/customers/bulk", h.bulkCreateCustomers)
	api.GET("/customers", h.listCustomers)
	api.GET("/customers/:id", h.getCustomer)

	api.POST("/products", h.createProduct)
	api.GET("/products", h.listProducts)
	api.GET("/products/:id", h.getProduct)

	api.POST("/orders", h.createOrder)
	api.GET("/orders", h.listOrders)
	api.GET("/orders/:id", h.getOrder)
}

func (h *Handler) hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.queries.Hello()})
}

func (h *Handler) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.mutations.CreateCustomer(c.Request.Context(), mutation.CreateCustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.logger.WithError(err).Error("create customer failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := createCustomerResponse{Message: res.Message}
	status := http.StatusOK
	if res.Customer != nil {
		payload := toCustomerPayload(*res.Customer)
		resp.Customer = &payload
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

func (h *Handler) bulkCreateCustomers(c *gin.Context) {
	var reqs []createCustomerRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	inputs := make([]mutation.CreateCustomerInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, mutation.CreateCustomerInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Address: req.Address,
		})
	}

	res, err := h.mutations.BulkCreateCustomers(c.Request.Context(), inputs)
	if err != nil {
		h.logger.WithError(err).Error("bulk create customers failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := bulkCreateCustomersResponse{
		Customers: make([]customerPayload, 0, len(res.Customers)),
		Errors:    res.Errors,
	}
	for _, customer := range res.Customers {
		resp.Customers = append(resp.Customers, toCustomerPayload(customer))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.queries.Customers()
	if err != nil {
		h.logger.WithError(err).Error("list customers failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	payload := make([]customerPayload, 0, len(customers))
	for _, customer := range customers {
		payload = append(payload, toCustomerPayload(customer))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) getCustomer(c *gin.Context) {
	customer, err := h.queries.Customer(c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err, "list customer failed")
		return
	}
	c.JSON(http.StatusOK, toCustomerPayload(customer))
}

func (h *Handler) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.mutations.CreateProduct(c.Request.Context(), mutation.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		h.renderMutationError(c, err, "create product failed")
		return
	}
	c.JSON(http.StatusCreated, toProductPayload(product))
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.queries.Products()
	if err != nil {
		h.logger.WithError(err).Error("list products failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	payload := make([]productPayload, 0, len(products))
	for _, product := range products {
		payload = append(payload, toProductPayload(product))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.queries.Product(c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err, "get product failed")
		return
	}
	c.JSON(http.StatusOK, toProductPayload(product))
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.mutations.CreateOrder(c.Request.Context(), mutation.CreateOrderInput{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
		OrderDate:  req.OrderDate,
	})
	if err != nil {
		h.renderMutationError(c, err, "create order failed")
		return
	}

	view, err := h.queries.Order(order.ID)
	if err != nil {
		h.logger.WithError(err).Error("load created order failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, toOrderPayload(view))
}

func (h *Handler) listOrders(c *gin.Context) {
	var (
		views []query.OrderView
		err   error
	)
	if raw := c.Query("pending_since"); raw != "" {
		var since time.Time
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pending_since must be RFC3339"})
			return
		}
		views, err = h.queries.PendingOrdersSince(since)
	} else {
		views, err = h.queries.Orders()
	}
	if err != nil {
		h.logger.WithError(err).Error("list orders failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	payload := make([]orderPayload, 0, len(views))
	for _, view := range views {
		payload = append(payload, toOrderPayload(view))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) getOrder(c *gin.Context) {
	view, err := h.queries.Order(c.Param("id"))
	if err != nil {
		h.renderLookupError(c, err, "get order failed")
		return
	}
	c.JSON(http.StatusOK, toOrderPayload(view))
}

// renderMutationError транслирует ошибки мутаций в HTTP-статусы:
// нарушения входных правил — 400, отсутствующие коллабораторы — 404,
// остальное — 500 без деталей.
func (h *Handler) renderMutationError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrPriceNotPositive),
		errors.Is(err, domain.ErrStockNegative),
		errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrItemsRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).Error(logMsg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) renderLookupError(c *gin.Context, err error, logMsg string) {
	if domain.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	h.logger.WithError(err).Error(logMsg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
