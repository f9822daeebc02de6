package mutation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/metrics"
	"github.com/vladislavdragonenkov/crm/internal/validation"
)

// Сообщения бизнес-исходов. Это контракт API: клиенты ветвятся по тексту
// message/errors, а не по транспортной ошибке.
const (
	msgEmailExists     = "Email already exists"
	msgInvalidPhone    = "Invalid phone format. Use +1234567890 or 123-456-7890"
	msgNameRequired    = "Name is required"
	msgEmailRequired   = "Email is required"
	msgCustomerCreated = "Customer created successfully"
)

// CreateCustomerInput — вход мутации CreateCustomer.
type CreateCustomerInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// CreateCustomerResult — структурный результат CreateCustomer.
// При бизнес-отказе Customer равен nil, а Message объясняет причину.
type CreateCustomerResult struct {
	Customer *domain.Customer
	Message  string
}

// BulkCreateCustomersResult накапливает пер-записные исходы пакетного создания.
type BulkCreateCustomersResult struct {
	Customers []domain.Customer
	Errors    []string
}

// CreateCustomer создаёт клиента. Дубликат email и невалидный телефон —
// ожидаемые бизнес-исходы (nil-клиент + сообщение), а не ошибки запроса.
func (s *Service) CreateCustomer(ctx context.Context, in CreateCustomerInput) (CreateCustomerResult, error) {
	started := s.now()

	if strings.TrimSpace(in.Name) == "" {
		s.observe(opCreateCustomer, metrics.ResultRejected, started)
		return CreateCustomerResult{Message: msgNameRequired}, nil
	}
	if strings.TrimSpace(in.Email) == "" {
		s.observe(opCreateCustomer, metrics.ResultRejected, started)
		return CreateCustomerResult{Message: msgEmailRequired}, nil
	}

	exists, err := s.customers.ExistsByEmail(in.Email)
	if err != nil {
		s.observe(opCreateCustomer, metrics.ResultError, started)
		return CreateCustomerResult{}, fmt.Errorf("check email uniqueness: %w", err)
	}
	if exists {
		s.observe(opCreateCustomer, metrics.ResultRejected, started)
		return CreateCustomerResult{Message: msgEmailExists}, nil
	}

	if err := validation.Phone(in.Phone); err != nil {
		s.observe(opCreateCustomer, metrics.ResultRejected, started)
		return CreateCustomerResult{Message: msgInvalidPhone}, nil
	}

	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: s.now().UTC(),
	}
	if err := s.customers.Insert(customer); err != nil {
		if errors.Is(err, domain.ErrEmailExists) {
			// Гонка двух одинаковых запросов: проигравший получает тот же
			// бизнес-исход, что и при повторной отправке.
			s.observe(opCreateCustomer, metrics.ResultRejected, started)
			return CreateCustomerResult{Message: msgEmailExists}, nil
		}
		s.observe(opCreateCustomer, metrics.ResultError, started)
		return CreateCustomerResult{}, fmt.Errorf("insert customer: %w", err)
	}

	s.enqueueEvent(aggregateCustomer, customer.ID, eventCustomerCreated, customerEventPayload(customer))
	s.observe(opCreateCustomer, metrics.ResultSuccess, started)
	return CreateCustomerResult{Customer: &customer, Message: msgCustomerCreated}, nil
}

// BulkCreateCustomers обрабатывает записи независимо в порядке входа.
// Отклонённая запись помечается позицией (с единицы) и не мешает
// последующим записям; валидное подмножество коммитится одной транзакцией.
func (s *Service) BulkCreateCustomers(ctx context.Context, inputs []CreateCustomerInput) (BulkCreateCustomersResult, error) {
	started := s.now()

	result := BulkCreateCustomersResult{
		Customers: []domain.Customer{},
		Errors:    []string{},
	}
	staged := make([]domain.Customer, 0, len(inputs))
	stagedEmails := make(map[string]struct{}, len(inputs))

	for i, in := range inputs {
		pos := i + 1

		if strings.TrimSpace(in.Name) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: %s", pos, msgNameRequired))
			continue
		}
		if strings.TrimSpace(in.Email) == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: %s", pos, msgEmailRequired))
			continue
		}

		// Дубликат ищем и в хранилище, и среди записей этой же пачки,
		// стоящих раньше по списку.
		_, inBatch := stagedEmails[in.Email]
		if !inBatch {
			exists, err := s.customers.ExistsByEmail(in.Email)
			if err != nil {
				s.observe(opBulkCreateCustomers, metrics.ResultError, started)
				return BulkCreateCustomersResult{}, fmt.Errorf("check email uniqueness: %w", err)
			}
			inBatch = exists
		}
		if inBatch {
			result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: Email %s already exists", pos, in.Email))
			continue
		}

		if err := validation.Phone(in.Phone); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Customer %d: %s", pos, msgInvalidPhone))
			continue
		}

		staged = append(staged, domain.Customer{
			ID:        uuid.NewString(),
			Name:      in.Name,
			Email:     in.Email,
			Phone:     in.Phone,
			Address:   in.Address,
			CreatedAt: s.now().UTC(),
		})
		stagedEmails[in.Email] = struct{}{}
	}

	if len(staged) > 0 {
		if err := s.customers.InsertMany(staged); err != nil {
			s.observe(opBulkCreateCustomers, metrics.ResultError, started)
			return BulkCreateCustomersResult{}, fmt.Errorf("insert customers: %w", err)
		}
		for _, customer := range staged {
			s.enqueueEvent(aggregateCustomer, customer.ID, eventCustomerCreated, customerEventPayload(customer))
		}
		result.Customers = staged
	}

	if len(result.Customers) > 0 {
		s.observe(opBulkCreateCustomers, metrics.ResultSuccess, started)
	} else {
		s.observe(opBulkCreateCustomers, metrics.ResultRejected, started)
	}
	return result, nil
}

func customerEventPayload(customer domain.Customer) any {
	return struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}{
		ID:    customer.ID,
		Name:  customer.Name,
		Email: customer.Email,
	}
}
