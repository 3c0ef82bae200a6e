package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/crowthreads/storefront/internal/apperror"
	"github.com/crowthreads/storefront/internal/domain"
	"github.com/crowthreads/storefront/internal/repository"

	"github.com/google/uuid"
)

// CatalogService defines the interface for product catalog business logic
type CatalogService interface {
	CreateProduct(ctx context.Context, name, description string, priceCents int64, imageURL string, sizes, colors []string) (*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

// CreateProduct adds a product to the catalog. Sizes and colors are
// trimmed and deduplicated; empty entries are dropped.
func (s *catalogService) CreateProduct(ctx context.Context, name, description string, priceCents int64, imageURL string, sizes, colors []string) (*domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperror.New(apperror.Validation, "name is required")
	}
	if priceCents < 0 {
		return nil, apperror.New(apperror.Validation, "price must not be negative")
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		ImageURL:    imageURL,
		Sizes:       normalizeOptions(sizes),
		Colors:      normalizeOptions(colors),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to create product")
	}

	return product, nil
}

// GetProduct retrieves a single product
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.New(apperror.NotFound, "product not found")
		}
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to get product")
	}
	return product, nil
}

// ListProducts retrieves the catalog, newest first
func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.Unexpected, err, "failed to list products")
	}
	return products, nil
}

// DeleteProduct removes a product. Cart lines that reference it are left
// alone; checkout filters them out.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return apperror.New(apperror.NotFound, "product not found")
		}
		return apperror.Wrap(apperror.Unexpected, err, "failed to delete product")
	}
	return nil
}

func normalizeOptions(values []string) []string {
	result := []string{}
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}
