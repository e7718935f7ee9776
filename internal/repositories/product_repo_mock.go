package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"storefront/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Results are returned in ascending id order.
type MockProductRepository struct {
	products map[int64]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[int64]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	return r.filter(func(models.Product) bool { return true }), nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id int64) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// GetByCategory returns the products whose category equals category.
func (r *MockProductRepository) GetByCategory(_ context.Context, category string) ([]models.Product, error) {
	return r.filter(func(p models.Product) bool { return p.Category == category }), nil
}

// Search matches query case-insensitively against name, description and category.
func (r *MockProductRepository) Search(_ context.Context, query string) ([]models.Product, error) {
	q := strings.ToLower(query)
	return r.filter(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q)
	}), nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID <= 0 {
		product.ID = r.nextID()
	}
	if _, ok := r.products[product.ID]; ok {
		return fmt.Errorf("product with ID %d already exists", product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

func (r *MockProductRepository) nextID() int64 {
	var max int64
	for id := range r.products {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (r *MockProductRepository) filter(keep func(models.Product) bool) []models.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if keep(p) {
			productList = append(productList, p)
		}
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList
}
