package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"used-market/internal/domain"
	"used-market/internal/readmodel"
)

type WishlistService struct {
	wishlist domain.WishlistRepository
	products domain.ProductRepository
}

func NewWishlistService(w domain.WishlistRepository, p domain.ProductRepository) *WishlistService {
	return &WishlistService{wishlist: w, products: p}
}

// Add 同一 (authorID, productID) 只保留一条
func (s *WishlistService) Add(ctx context.Context, authorID, productID string) (*domain.WishlistEntry, error) {
	if authorID == "" || productID == "" {
		return nil, fmt.Errorf("authorID and productID required: %w", domain.ErrInvalid)
	}
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}
	if w, err := s.wishlist.FindByPair(ctx, authorID, productID); err != nil {
		return nil, err
	} else if w != nil {
		return w, nil
	}

	w := &domain.WishlistEntry{AuthorID: authorID, ProductID: productID, CreatedAt: time.Now()}
	if err := s.wishlist.Create(ctx, w); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			if again, e := s.wishlist.FindByPair(ctx, authorID, productID); e == nil && again != nil {
				return again, nil
			}
		}
		return nil, err
	}
	return w, nil
}

func (s *WishlistService) List(ctx context.Context, uid string) ([]readmodel.WishlistItem, error) {
	entries, err := s.wishlist.FindByAuthor(ctx, uid)
	if err != nil {
		return nil, err
	}
	ids := readmodel.Keys(entries, func(w *domain.WishlistEntry) string { return w.ProductID })
	var products []domain.Product
	if len(ids) > 0 {
		if products, err = s.products.Find(ctx, domain.ProductFilter{IDs: ids}); err != nil {
			return nil, err
		}
	}
	return readmodel.WishlistWithProducts(entries, products), nil
}

func (s *WishlistService) Remove(ctx context.Context, id, uid string) (int64, error) {
	n, err := s.wishlist.Delete(ctx, id, uid)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("wishlist entry %s of %s: %w", id, uid, domain.ErrNotFound)
	}
	return n, nil
}
