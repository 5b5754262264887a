package domain

import "context"

// Category 与 Brand 结构相同，value 由唯一索引保证不重复
type Category struct {
	ID    string `gorm:"primaryKey;size:36" json:"_id"`
	Value string `gorm:"uniqueIndex;size:64;not null" json:"value"`
}

type Brand struct {
	ID    string `gorm:"primaryKey;size:36" json:"_id"`
	Value string `gorm:"uniqueIndex;size:64;not null" json:"value"`
}

type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]Category, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type BrandRepository interface {
	Create(ctx context.Context, b *Brand) error
	FindByID(ctx context.Context, id string) (*Brand, error)
	List(ctx context.Context) ([]Brand, error)
	Delete(ctx context.Context, id string) (int64, error)
}
