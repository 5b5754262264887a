package domain

import (
	"context"
	"time"
)

type WishlistEntry struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	AuthorID  string    `gorm:"uniqueIndex:idx_wishlist_author_product;size:128;not null" json:"authorID"`
	ProductID string    `gorm:"uniqueIndex:idx_wishlist_author_product;size:36;not null" json:"productID"`
	CreatedAt time.Time `json:"createdAt"`
}

func (WishlistEntry) TableName() string { return "wishlist" }

type WishlistRepository interface {
	Create(ctx context.Context, w *WishlistEntry) error
	FindByPair(ctx context.Context, authorID, productID string) (*WishlistEntry, error)
	FindByAuthor(ctx context.Context, authorID string) ([]WishlistEntry, error)
	Delete(ctx context.Context, id, authorID string) (int64, error)
	DeleteByPair(ctx context.Context, authorID, productID string) (int64, error)
}
