package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// FeaturedFallback is how many products Featured returns when none are flagged.
const FeaturedFallback = 4

// CatalogService handles read-only catalog lookups.
type CatalogService struct {
	repo    repositories.ProductRepository
	latency time.Duration
	group   singleflight.Group
}

// NewCatalogService creates a new CatalogService. A positive latency delays
// every lookup to mimic a remote catalog.
func NewCatalogService(repo repositories.ProductRepository, latency time.Duration) *CatalogService {
	return &CatalogService{
		repo:    repo,
		latency: latency,
	}
}

// ListAll returns the whole catalog in id order.
func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

// GetByID returns one product. Concurrent lookups of the same id share a
// single repository call; each caller still returns early when its own ctx
// is done.
func (s *CatalogService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		if err := s.wait(shared); err != nil {
			return nil, err
		}
		return s.repo.GetByID(shared, id)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("catalog lookup cancelled: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		product := *res.Val.(*models.Product)
		return &product, nil
	}
}

// ListByCategory returns the products of category; AllCategories or an
// empty category returns everything.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	if category == "" || category == models.AllCategories {
		return s.ListAll(ctx)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.GetByCategory(ctx, category)
}

// Search matches query against name, description and category ignoring case.
// The query is used verbatim; an empty query returns the whole catalog.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	if query == "" {
		return s.ListAll(ctx)
	}
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.Search(ctx, query)
}

// Categories returns the AllCategories sentinel followed by every category
// present in the catalog, in order of first appearance.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	for _, c := range repositories.DefaultCategories() {
		names[c.ID] = c.Name
	}

	categories := []models.Category{{ID: models.AllCategories, Name: names[models.AllCategories]}}
	seen := map[string]bool{models.AllCategories: true}
	for _, p := range products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true

		name, ok := names[p.Category]
		if !ok {
			name = categoryTitle(p.Category)
		}
		categories = append(categories, models.Category{ID: p.Category, Name: name})
	}
	return categories, nil
}

// Featured returns the flagged products, or the first FeaturedFallback
// products when none are flagged.
func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	products, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	featured := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	if len(featured) > 0 {
		return featured, nil
	}
	if len(products) > FeaturedFallback {
		products = products[:FeaturedFallback]
	}
	return products, nil
}

func (s *CatalogService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("catalog lookup cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func categoryTitle(id string) string {
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
