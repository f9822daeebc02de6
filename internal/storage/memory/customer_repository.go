package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/crm/internal/domain"
)

// customerRepositoryInMemory — простая in-memory реализация CustomerRepository.
type customerRepositoryInMemory struct {
	mu      sync.RWMutex
	items   map[string]domain.Customer
	byEmail map[string]string
}

// NewCustomerRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewCustomerRepository() domain.CustomerRepository {
	return &customerRepositoryInMemory{
		items:   make(map[string]domain.Customer),
		byEmail: make(map[string]string),
	}
}

// Insert сохраняет нового клиента, контролируя уникальность ID и email.
func (r *customerRepositoryInMemory) Insert(customer domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(customer)
}

// InsertMany сохраняет пачку клиентов по принципу "всё или ничего",
// имитируя транзакцию реляционного хранилища.
func (r *customerRepositoryInMemory) InsertMany(customers []domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, customer := range customers {
		if _, exists := r.items[customer.ID]; exists {
			return domain.ErrDuplicateID
		}
		if _, exists := r.byEmail[customer.Email]; exists {
			return domain.ErrEmailExists
		}
	}
	for _, customer := range customers {
		if err := r.insertLocked(customer); err != nil {
			return err
		}
	}
	return nil
}

func (r *customerRepositoryInMemory) insertLocked(customer domain.Customer) error {
	if _, exists := r.items[customer.ID]; exists {
		return domain.ErrDuplicateID
	}
	if _, exists := r.byEmail[customer.Email]; exists {
		return domain.ErrEmailExists
	}
	r.items[customer.ID] = customer
	r.byEmail[customer.Email] = customer.ID
	return nil
}

// Get возвращает клиента или ErrCustomerNotFound, если его нет.
func (r *customerRepositoryInMemory) Get(id string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.items[id]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// GetByEmail возвращает клиента по email или ErrCustomerNotFound.
func (r *customerRepositoryInMemory) GetByEmail(email string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return r.items[id], nil
}

// ExistsByEmail проверяет занятость email.
func (r *customerRepositoryInMemory) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byEmail[email]
	return ok, nil
}

// List возвращает всех клиентов в стабильном порядке (по дате создания, затем по ID).
func (r *customerRepositoryInMemory) List() ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Customer, 0, len(r.items))
	for _, customer := range r.items {
		result = append(result, customer)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Count возвращает число сохранённых клиентов.
func (r *customerRepositoryInMemory) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

var _ domain.CustomerRepository = (*customerRepositoryInMemory)(nil)
