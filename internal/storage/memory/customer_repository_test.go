package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newCustomer(id, email string) domain.Customer {
	return domain.Customer{
		ID:        id,
		Name:      "Test Customer",
		Email:     email,
		Phone:     "+1234567890",
		CreatedAt: time.Now().UTC(),
	}
}

func TestCustomerRepository_InsertGet(t *testing.T) {
	repo := memory.NewCustomerRepository()
	customer := newCustomer("customer-1", "one@example.com")

	if err := repo.Insert(customer); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	stored, err := repo.Get(customer.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Email != customer.Email {
		t.Fatalf("expected email %s, got %s", customer.Email, stored.Email)
	}

	byEmail, err := repo.GetByEmail(customer.Email)
	if err != nil {
		t.Fatalf("get by email failed: %v", err)
	}
	if byEmail.ID != customer.ID {
		t.Fatalf("expected id %s, got %s", customer.ID, byEmail.ID)
	}
}

func TestCustomerRepository_DuplicateEmail(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if err := repo.Insert(newCustomer("customer-1", "dup@example.com")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	err := repo.Insert(newCustomer("customer-2", "dup@example.com"))
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 customer, got %d", count)
	}
}

func TestCustomerRepository_ExistsByEmail(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if err := repo.Insert(newCustomer("customer-1", "one@example.com")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	exists, err := repo.ExistsByEmail("one@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("expected email to exist")
	}

	exists, err = repo.ExistsByEmail("missing@example.com")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatal("expected email to be free")
	}
}

func TestCustomerRepository_InsertMany_AllOrNothing(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if err := repo.Insert(newCustomer("customer-1", "taken@example.com")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	batch := []domain.Customer{
		newCustomer("customer-2", "fresh@example.com"),
		newCustomer("customer-3", "taken@example.com"),
	}
	if err := repo.InsertMany(batch); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	// Конфликтная пачка не должна оставить частичных записей.
	if _, err := repo.Get("customer-2"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected customer-2 to be absent, got %v", err)
	}
}

func TestCustomerRepository_GetMissing(t *testing.T) {
	repo := memory.NewCustomerRepository()
	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("expected ErrCustomerNotFound, got %v", err)
	}
}
