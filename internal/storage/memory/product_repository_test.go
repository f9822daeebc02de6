package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/crm/internal/domain"
	"github.com/vladislavdragonenkov/crm/internal/storage/memory"
)

func newProduct(id string, createdAt time.Time) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       "Test Product",
		PriceMinor: 9999,
		Stock:      5,
		CreatedAt:  createdAt,
	}
}

func TestProductRepository_InsertGet(t *testing.T) {
	repo := memory.NewProductRepository()
	product := newProduct("product-1", time.Now().UTC())

	if err := repo.Insert(product); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	stored, err := repo.Get(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.PriceMinor != product.PriceMinor {
		t.Fatalf("expected price %d, got %d", product.PriceMinor, stored.PriceMinor)
	}

	if err := repo.Insert(product); !errors.Is(err, domain.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestProductRepository_GetMissing(t *testing.T) {
	repo := memory.NewProductRepository()

	if _, err := repo.Get("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_ListOrdered(t *testing.T) {
	repo := memory.NewProductRepository()
	base := time.Now().UTC()

	second := newProduct("product-2", base.Add(time.Minute))
	first := newProduct("product-1", base)
	if err := repo.Insert(second); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := repo.Insert(first); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	products, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "product-1" || products[1].ID != "product-2" {
		t.Fatalf("unexpected order: %s, %s", products[0].ID, products[1].ID)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}
