package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"used-market/internal/core/cache"
	"used-market/internal/domain"
)

const (
	keyCategories = "used:categories"
	keyBrands     = "used:brands"
)

type CatalogService struct {
	categories domain.CategoryRepository
	brands     domain.BrandRepository
	products   domain.ProductRepository
	cache      *cache.Cache // 可为 nil
	ttl        time.Duration
}

func NewCatalogService(
	categories domain.CategoryRepository,
	brands domain.BrandRepository,
	products domain.ProductRepository,
	c *cache.Cache,
	ttl time.Duration,
) *CatalogService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogService{categories: categories, brands: brands, products: products, cache: c, ttl: ttl}
}

func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, keyCategories, s.ttl, func(ctx context.Context) (*[]domain.Category, error) {
		list, err := s.categories.List(ctx)
		return &list, err
	})
	if err != nil || out == nil {
		return nil, err
	}
	return *out, nil
}

// CreateCategory 依赖唯一索引：重复 value 返回 ErrConflict
func (s *CatalogService) CreateCategory(ctx context.Context, value string) (*domain.Category, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("value required: %w", domain.ErrInvalid)
	}
	c := &domain.Category{Value: value}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, keyCategories)
	return c, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) (int64, error) {
	n, err := s.categories.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	s.cache.Invalidate(ctx, keyCategories)
	return n, nil
}

func (s *CatalogService) CategoryProducts(ctx context.Context, id string) ([]domain.Product, error) {
	c, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return s.products.Find(ctx, domain.ProductFilter{Category: c.Value, Unsold: true, Newest: true})
}

func (s *CatalogService) Brands(ctx context.Context) ([]domain.Brand, error) {
	out, err := cache.GetOrLoadJSON(s.cache, ctx, keyBrands, s.ttl, func(ctx context.Context) (*[]domain.Brand, error) {
		list, err := s.brands.List(ctx)
		return &list, err
	})
	if err != nil || out == nil {
		return nil, err
	}
	return *out, nil
}

func (s *CatalogService) CreateBrand(ctx context.Context, value string) (*domain.Brand, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("value required: %w", domain.ErrInvalid)
	}
	b := &domain.Brand{Value: value}
	if err := s.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, keyBrands)
	return b, nil
}

func (s *CatalogService) DeleteBrand(ctx context.Context, id string) (int64, error) {
	n, err := s.brands.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("brand %s: %w", id, domain.ErrNotFound)
	}
	s.cache.Invalidate(ctx, keyBrands)
	return n, nil
}

func (s *CatalogService) BrandProducts(ctx context.Context, id string) ([]domain.Product, error) {
	b, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("brand %s: %w", id, domain.ErrNotFound)
	}
	return s.products.Find(ctx, domain.ProductFilter{Brand: b.Value, Unsold: true, Newest: true})
}
