package kafka

// EventType определяет тип события
type EventType string

const (
	EventTypeCustomerCreated EventType = "customer.created"
	EventTypeProductCreated  EventType = "product.created"
	EventTypeOrderCreated    EventType = "order.created"
)

// Topics для Kafka
const (
	TopicCustomerEvents  = "crm.customer.events"
	TopicProductEvents   = "crm.product.events"
	TopicOrderEvents     = "crm.order.events"
	TopicDeadLetterQueue = "crm.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// TopicForAggregate возвращает topic для типа агрегата. Неизвестные типы
// уходят в topic заказов, чтобы не терять события.
func TopicForAggregate(aggregateType string) string {
	switch aggregateType {
	case "customer":
		return TopicCustomerEvents
	case "product":
		return TopicProductEvents
	case "order":
		return TopicOrderEvents
	default:
		return TopicOrderEvents
	}
}
