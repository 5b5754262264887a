package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"used-market/internal/domain"
	"used-market/pkg/utils"
)

type CategoryRepo struct{ db *gorm.DB }

func NewCategoryRepo(db *gorm.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(c).Error, "create category")
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find category")
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0)
	err := r.db.WithContext(ctx).Order("value").Find(&out).Error
	return out, translate(err, "list categories")
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{})
	return res.RowsAffected, translate(res.Error, "delete category")
}

type BrandRepo struct{ db *gorm.DB }

func NewBrandRepo(db *gorm.DB) *BrandRepo { return &BrandRepo{db: db} }

func (r *BrandRepo) Create(ctx context.Context, b *domain.Brand) error {
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(b).Error, "create brand")
}

func (r *BrandRepo) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	var b domain.Brand
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find brand")
	}
	return &b, nil
}

func (r *BrandRepo) List(ctx context.Context) ([]domain.Brand, error) {
	out := make([]domain.Brand, 0)
	err := r.db.WithContext(ctx).Order("value").Find(&out).Error
	return out, translate(err, "list brands")
}

func (r *BrandRepo) Delete(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Brand{})
	return res.RowsAffected, translate(res.Error, "delete brand")
}
