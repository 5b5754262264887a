package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"used-market/internal/domain"
	"used-market/pkg/utils"
)

type WishlistRepo struct{ db *gorm.DB }

func NewWishlistRepo(db *gorm.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Create(ctx context.Context, w *domain.WishlistEntry) error {
	if w.ID == "" {
		w.ID = utils.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(w).Error, "create wishlist entry")
}

func (r *WishlistRepo) FindByPair(ctx context.Context, authorID, productID string) (*domain.WishlistEntry, error) {
	var w domain.WishlistEntry
	err := r.db.WithContext(ctx).First(&w, "author_id = ? AND product_id = ?", authorID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find wishlist entry")
	}
	return &w, nil
}

func (r *WishlistRepo) FindByAuthor(ctx context.Context, authorID string) ([]domain.WishlistEntry, error) {
	out := make([]domain.WishlistEntry, 0)
	err := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Find(&out).Error
	return out, translate(err, "list wishlist")
}

func (r *WishlistRepo) Delete(ctx context.Context, id, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).Delete(&domain.WishlistEntry{})
	return res.RowsAffected, translate(res.Error, "delete wishlist entry")
}

func (r *WishlistRepo) DeleteByPair(ctx context.Context, authorID, productID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("author_id = ? AND product_id = ?", authorID, productID).
		Delete(&domain.WishlistEntry{})
	return res.RowsAffected, translate(res.Error, "delete wishlist by product")
}
