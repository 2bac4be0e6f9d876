package service

import (
	"context"
	"time"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/repository"

	"github.com/google/uuid"
)

// CreateProductInput is the validated payload for product creation
type CreateProductInput struct {
	Name        string
	Unit        string
	Price       float64
	Description string
	ImageURL    string
	IsActive    *bool
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	ListPublic(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error)
	ListAdmin(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, update repository.ProductUpdate) (*domain.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// ListPublic lists active, non-deleted products
func (s *productService) ListPublic(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	return s.productRepo.ListPublic(ctx, filter)
}

// ListAdmin lists non-deleted products with an optional status narrowing
func (s *productService) ListAdmin(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, int, error) {
	return s.productRepo.ListAdmin(ctx, filter)
}

// GetByID retrieves a product, excluding soft-deleted records
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create stores a new product; products default to active
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Unit:        input.Unit,
		Price:       input.Price,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update applies a partial update to a product
func (s *productService) Update(ctx context.Context, id uuid.UUID, update repository.ProductUpdate) (*domain.Product, error) {
	return s.productRepo.Update(ctx, id, update)
}

// SoftDelete tombstones a product; it stays in storage but disappears from
// every read and mutation path
func (s *productService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.SoftDelete(ctx, id)
}
