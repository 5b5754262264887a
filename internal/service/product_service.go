package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"used-market/internal/domain"
	"used-market/internal/readmodel"
)

type ProductService struct {
	products domain.ProductRepository
	users    domain.UserRepository
}

func NewProductService(products domain.ProductRepository, users domain.UserRepository) *ProductService {
	return &ProductService{products: products, users: users}
}

// Create 原样写入，只要求 authorID；sell 由下单流程设置
func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if strings.TrimSpace(p.AuthorID) == "" {
		return nil, fmt.Errorf("authorID required: %w", domain.ErrInvalid)
	}
	p.ID = ""
	p.Sell = nil
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func (s *ProductService) Browse(ctx context.Context, category, brand string) ([]domain.Product, error) {
	return s.products.Find(ctx, domain.ProductFilter{Category: category, Brand: brand, Unsold: true, Newest: true})
}

func (s *ProductService) ByAuthor(ctx context.Context, uid string) ([]domain.Product, error) {
	return s.products.Find(ctx, domain.ProductFilter{AuthorID: uid, Newest: true})
}

func (s *ProductService) ToggleAdvertise(ctx context.Context, id, uid string) (int64, error) {
	n, err := s.products.ToggleAdvertise(ctx, id, uid)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("product %s of %s: %w", id, uid, domain.ErrNotFound)
	}
	return n, nil
}

func (s *ProductService) Delete(ctx context.Context, id, uid string) (int64, error) {
	n, err := s.products.Delete(ctx, id, uid)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("product %s of %s: %w", id, uid, domain.ErrNotFound)
	}
	return n, nil
}

// Advertised 推广中且未售出的商品，附带作者信息
func (s *ProductService) Advertised(ctx context.Context) ([]readmodel.AdvertisedProduct, error) {
	yes := true
	products, err := s.products.Find(ctx, domain.ProductFilter{Advertised: &yes, Unsold: true, Newest: true})
	if err != nil {
		return nil, err
	}
	uids := readmodel.Keys(products, func(p *domain.Product) string { return p.AuthorID })
	var authors []domain.User
	if len(uids) > 0 {
		if authors, err = s.users.Find(ctx, domain.UserFilter{UIDs: uids}); err != nil {
			return nil, err
		}
	}
	return readmodel.AdvertisedWithAuthors(products, authors), nil
}
