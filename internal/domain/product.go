package domain

import (
	"context"
	"time"
)

type Product struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	AuthorID      string    `gorm:"index;size:128;not null" json:"authorID"`
	Name          string    `gorm:"size:191" json:"name"`
	Image         string    `gorm:"size:512" json:"image"`
	Description   string    `gorm:"type:text" json:"description"`
	Location      string    `gorm:"size:191" json:"location"`
	Category      string    `gorm:"index;size:64" json:"category"`
	Brand         string    `gorm:"index;size:64" json:"brand"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	YearsOfUse    float64   `json:"yearsOfUse"`
	Condition     string    `gorm:"size:32" json:"condition"`
	Advertise     bool      `gorm:"not null;default:false" json:"advertise"`
	Sell          *bool     `json:"sell,omitempty"` // 非空即已售出，只写一次
	CreatedAt     time.Time `json:"createdAt"`
}

func (p *Product) Sold() bool { return p != nil && p.Sell != nil && *p.Sell }

// ProductFilter 零值字段不参与过滤
type ProductFilter struct {
	IDs        []string
	AuthorID   string
	Category   string
	Brand      string
	Advertised *bool
	Unsold     bool
	Newest     bool // 按 created_at DESC
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	Find(ctx context.Context, f ProductFilter) ([]Product, error)
	// ToggleAdvertise 只翻转 authorID 名下的商品，返回受影响行数
	ToggleAdvertise(ctx context.Context, id, authorID string) (int64, error)
	MarkSold(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id, authorID string) (int64, error)
}
