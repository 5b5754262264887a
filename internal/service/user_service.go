package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"used-market/internal/core/events"
	"used-market/internal/core/identity"
	"used-market/internal/domain"
)

type UserService struct {
	users  domain.UserRepository
	idp    identity.Provider
	events events.Publisher
	log    *zap.Logger
}

func NewUserService(users domain.UserRepository, idp identity.Provider, pub events.Publisher, l *zap.Logger) *UserService {
	if idp == nil {
		idp = identity.Local{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, idp: idp, events: pub, log: l}
}

// Ensure 按 uid 幂等：已存在原样返回，否则以 member/未认证 插入
func (s *UserService) Ensure(ctx context.Context, in domain.User) (*domain.User, bool, error) {
	in.UID = strings.TrimSpace(in.UID)
	if in.UID == "" {
		return nil, false, fmt.Errorf("uid required: %w", domain.ErrInvalid)
	}
	if u, err := s.users.FindByUID(ctx, in.UID); err != nil {
		return nil, false, err
	} else if u != nil {
		return u, false, nil
	}

	u := &domain.User{
		UID:      in.UID,
		Name:     in.Name,
		Email:    in.Email,
		PhotoURL: in.PhotoURL,
		Role:     domain.RoleMember,
		Verified: false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发兜底：唯一冲突 → 再查一次
		if errors.Is(err, domain.ErrConflict) {
			if again, e := s.users.FindByUID(ctx, in.UID); e == nil && again != nil {
				return again, false, nil
			}
		}
		return nil, false, err
	}
	return u, true, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.users.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, role string) ([]domain.User, error) {
	if role != "" && !domain.ValidRole(role) {
		return nil, fmt.Errorf("role %q: %w", role, domain.ErrInvalid)
	}
	return s.users.Find(ctx, domain.UserFilter{Role: role})
}

func (s *UserService) SetVerified(ctx context.Context, uid string, verified bool) (*domain.User, error) {
	return s.users.UpsertVerified(ctx, uid, verified)
}

func (s *UserService) SetRole(ctx context.Context, uid, role string) error {
	if !domain.ValidRole(role) {
		return fmt.Errorf("role %q: %w", role, domain.ErrInvalid)
	}
	n, err := s.users.SetRole(ctx, uid, role)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
	}
	return nil
}

// Delete 先删身份提供方，失败则保留本地记录；两步不是原子的
func (s *UserService) Delete(ctx context.Context, uid string) (int64, error) {
	if err := s.idp.DeleteUser(ctx, uid); err != nil {
		return 0, fmt.Errorf("identity provider delete %s: %w: %v", uid, domain.ErrUpstream, err)
	}
	n, err := s.users.DeleteByUID(ctx, uid)
	if err != nil {
		s.log.Error("local user delete failed after idp delete", zap.String("uid", uid), zap.Error(err))
		return 0, err
	}
	if e := s.events.PublishJSON(ctx, events.UserDeleted, map[string]any{"uid": uid}); e != nil {
		s.log.Warn("publish user.deleted", zap.String("uid", uid), zap.Error(e))
	}
	return n, nil
}
