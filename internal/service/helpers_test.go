package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"used-market/internal/core/database"
	"used-market/internal/core/payment"
	"used-market/internal/repo"
)

type stores struct {
	db         *gorm.DB
	users      *repo.UserRepo
	products   *repo.ProductRepo
	categories *repo.CategoryRepo
	brands     *repo.BrandRepo
	wishlist   *repo.WishlistRepo
	orders     *repo.OrderRepo
}

func newStores(t *testing.T) *stores {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	return &stores{
		db:         db,
		users:      repo.NewUserRepo(db),
		products:   repo.NewProductRepo(db),
		categories: repo.NewCategoryRepo(db),
		brands:     repo.NewBrandRepo(db),
		wishlist:   repo.NewWishlistRepo(db),
		orders:     repo.NewOrderRepo(db),
	}
}

func (s *stores) count(t *testing.T, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	q := s.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

type recordedEvent struct {
	Key   string
	Value any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Key: key, Value: v})
	return nil
}

func (p *fakePublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Key)
	}
	return out
}

type fakeIDP struct {
	err     error
	deleted []string
}

func (f *fakeIDP) DeleteUser(_ context.Context, uid string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, uid)
	return nil
}

type fakeGateway struct {
	amount   int64
	currency string
	err      error
}

func (g *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (*payment.Intent, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.amount, g.currency = amount, currency
	return &payment.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: amount, Currency: currency}, nil
}

// failingProducts 让 MarkSold 失败，模拟级联中途出错
type failingProducts struct {
	*repo.ProductRepo
}

func (failingProducts) MarkSold(context.Context, string) (int64, error) {
	return 0, errors.New("connection reset")
}
