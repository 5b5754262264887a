package domain

import (
	"context"
	"time"
)

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	UID       string    `gorm:"uniqueIndex;size:128;not null" json:"uid"`
	Name      string    `gorm:"size:128" json:"name"`
	Email     string    `gorm:"size:191" json:"email"`
	PhotoURL  string    `gorm:"size:512" json:"photoURL"`
	Role      string    `gorm:"size:16;not null;default:member" json:"role"` // "member"/"admin"
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// ValidRole 仅允许 member/admin
func ValidRole(r string) bool { return r == RoleMember || r == RoleAdmin }

type UserFilter struct {
	Role string   // 为空不过滤
	UIDs []string // 为空不过滤
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByUID(ctx context.Context, uid string) (*User, error)
	Find(ctx context.Context, f UserFilter) ([]User, error)
	// UpsertVerified 不存在则插入一条只有 uid/verified 的记录
	UpsertVerified(ctx context.Context, uid string, verified bool) (*User, error)
	SetRole(ctx context.Context, uid, role string) (int64, error)
	DeleteByUID(ctx context.Context, uid string) (int64, error)
}
