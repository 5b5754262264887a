package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"used-market/internal/domain"
	"used-market/pkg/utils"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(p).Error, "create product")
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find product")
	}
	return &p, nil
}

func (r *ProductRepo) Find(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Brand != "" {
		q = q.Where("brand = ?", f.Brand)
	}
	if f.Advertised != nil {
		q = q.Where("advertise = ?", *f.Advertised)
	}
	if f.Unsold {
		q = q.Where("(sell IS NULL OR sell = ?)", false)
	}
	if f.Newest {
		q = q.Order("created_at DESC")
	}
	out := make([]domain.Product, 0)
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err, "list products")
	}
	return out, nil
}

func (r *ProductRepo) ToggleAdvertise(ctx context.Context, id, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Update("advertise", gorm.Expr("NOT advertise"))
	return res.RowsAffected, translate(res.Error, "toggle advertise")
}

// MarkSold 只会把 sell 置为 true，从不回退
func (r *ProductRepo) MarkSold(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Update("sell", true)
	return res.RowsAffected, translate(res.Error, "mark sold")
}

func (r *ProductRepo) Delete(ctx context.Context, id, authorID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).Delete(&domain.Product{})
	return res.RowsAffected, translate(res.Error, "delete product")
}
