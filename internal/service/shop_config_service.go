package service

import (
	"context"

	"kitchen-api/internal/domain"
	"kitchen-api/internal/repository"
)

// ShopConfigService defines the interface for shop configuration logic
type ShopConfigService interface {
	Get(ctx context.Context) (*domain.ShopConfig, error)
	Update(ctx context.Context, update repository.ShopConfigUpdate) (*domain.ShopConfig, error)
	Reset(ctx context.Context) (*domain.ShopConfig, error)
}

type shopConfigService struct {
	repo repository.ShopConfigRepository
}

// NewShopConfigService creates a new instance of ShopConfigService
func NewShopConfigService(repo repository.ShopConfigRepository) ShopConfigService {
	return &shopConfigService{repo: repo}
}

// Get returns the config singleton, creating it with defaults on first read
func (s *shopConfigService) Get(ctx context.Context) (*domain.ShopConfig, error) {
	return s.repo.GetOrCreateDefault(ctx)
}

// Update applies a partial update to the singleton
func (s *shopConfigService) Update(ctx context.Context, update repository.ShopConfigUpdate) (*domain.ShopConfig, error) {
	return s.repo.Update(ctx, update)
}

// Reset restores the factory defaults
func (s *shopConfigService) Reset(ctx context.Context) (*domain.ShopConfig, error) {
	return s.repo.Reset(ctx)
}
