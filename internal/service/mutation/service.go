// Пакет mutation реализует конвейер мутаций CRM: валидация входа,
// межсущностные проверки и атомарная запись через шлюз персистентности.
package mutation

import (
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
)

const (
	opCreateCustomer      = "create_customer"
	opBulkCreateCustomers = "bulk_create_customers"
	opCreateProduct       = "create_product"
	opCreateOrder         = "create_order"

	aggregateCustomer = "customer"
	aggregateProduct  = "product"
	aggregateOrder    = "order"

	eventCustomerCreated = "customer.created"
	eventProductCreated  = "product.created"
	eventOrderCreated    = "order.created"
)

// Service объединяет валидатор и шлюз персистентности в хендлеры мутаций.
// Outbox и метрики опциональны: их отсутствие не меняет семантику мутаций.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	metrics   *metrics.MutationMetrics
	logger    *log.Entry
	now       func() time.Time
}

// Option настраивает Service.
type Option func(*Service)

// WithOutbox включает публикацию событий о созданных сущностях через outbox.
func WithOutbox(repo domain.OutboxRepository) Option {
	return func(s *Service) {
		s.outbox = repo
	}
}

// WithMetrics включает метрики конвейера мутаций.
func WithMetrics(m *metrics.MutationMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger задаёт logger сервиса.
func WithLogger(logger *log.Entry) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock задаёт источник времени (используется в тестах).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService конструирует сервис мутаций с зависимостями.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	options ...Option,
) *Service {
	s := &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		now:       time.Now,
	}
	for _, option := range options {
		option(s)
	}
	if s.logger == nil {
		s.logger = log.WithField("component", "mutation-service")
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) observe(operation, result string, started time.Time) {
	s.metrics.Observe(operation, result, started)
}

// enqueueEvent кладёт событие в outbox. Сбой outbox логируется, но не
// отменяет уже зафиксированную мутацию.
func (s *Service) enqueueEvent(aggregateType, aggregateID, eventType string, payload any) {
	if s.outbox == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
	}); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"aggregate_id": aggregateID,
			"event_type":   eventType,
		}).Warn("failed to enqueue outbox event")
	}
}
