package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"used-market/internal/domain"
	"used-market/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	return translate(r.db.WithContext(ctx).Create(u).Error, "create user")
}

func (r *UserRepo) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "uid = ?", uid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "find user")
	}
	return &u, nil
}

func (r *UserRepo) Find(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if len(f.UIDs) > 0 {
		q = q.Where("uid IN ?", f.UIDs)
	}
	users := make([]domain.User, 0)
	if err := q.Order("created_at desc").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

func (r *UserRepo) UpsertVerified(ctx context.Context, uid string, verified bool) (*domain.User, error) {
	u := domain.User{ID: utils.NewID(), UID: uid, Role: domain.RoleMember, Verified: verified}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"verified", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		return nil, translate(err, "upsert verified")
	}
	return r.FindByUID(ctx, uid)
}

func (r *UserRepo) SetRole(ctx context.Context, uid, role string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("uid = ?", uid).Update("role", role)
	return res.RowsAffected, translate(res.Error, "set role")
}

func (r *UserRepo) DeleteByUID(ctx context.Context, uid string) (int64, error) {
	res := r.db.WithContext(ctx).Where("uid = ?", uid).Delete(&domain.User{})
	return res.RowsAffected, translate(res.Error, "delete user")
}
