package repo

import (
	"context"

	"gorm.io/gorm"

	"used-market/internal/domain"
	"used-market/pkg/utils"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = utils.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(o).Error, "create order")
}

func (r *OrderRepo) FindByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	out := make([]domain.Order, 0)
	err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("date DESC").Find(&out).Error
	return out, translate(err, "list orders")
}
