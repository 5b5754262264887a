package repo

import (
	"gorm.io/gorm"

	"used-market/internal/domain"
)

// Models 需要 AutoMigrate 的全部模型
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Product{},
		&domain.Category{},
		&domain.Brand{},
		&domain.WishlistEntry{},
		&domain.Order{},
	}
}

func AutoMigrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
