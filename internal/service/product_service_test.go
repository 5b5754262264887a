package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"used-market/internal/core/payment"
	"used-market/internal/domain"
)

func TestProductService_ToggleAdvertiseOwnerOnly(t *testing.T) {
	s := newStores(t)
	svc := NewProductService(s.products, s.users)
	ctx := context.Background()

	p, err := svc.Create(ctx, domain.Product{AuthorID: "seller", Name: "Camera"})
	require.NoError(t, err)
	assert.False(t, p.Advertise)

	_, err = svc.ToggleAdvertise(ctx, p.ID, "someone-else")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ToggleAdvertise(ctx, p.ID, "seller")
	require.NoError(t, err)
	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Advertise)

	_, err = svc.ToggleAdvertise(ctx, p.ID, "seller")
	require.NoError(t, err)
	got, err = svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Advertise)
}

func TestProductService_CreateIgnoresClientSellFlag(t *testing.T) {
	s := newStores(t)
	svc := NewProductService(s.products, s.users)
	sold := true
	p, err := svc.Create(context.Background(), domain.Product{AuthorID: "seller", Sell: &sold})
	require.NoError(t, err)
	assert.False(t, p.Sold())

	_, err = svc.Create(context.Background(), domain.Product{})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}

func TestProductService_AdvertisedWithAuthor(t *testing.T) {
	s := newStores(t)
	users := NewUserService(s.users, nil, nil, nil)
	svc := NewProductService(s.products, s.users)
	ctx := context.Background()

	_, _, err := users.Ensure(ctx, domain.User{UID: "seller", Name: "Sam", Email: "sam@x.io"})
	require.NoError(t, err)
	sold := true
	require.NoError(t, s.products.Create(ctx, &domain.Product{ID: "ad", AuthorID: "seller", Advertise: true}))
	require.NoError(t, s.products.Create(ctx, &domain.Product{ID: "ad-sold", AuthorID: "seller", Advertise: true, Sell: &sold}))
	require.NoError(t, s.products.Create(ctx, &domain.Product{ID: "plain", AuthorID: "seller"}))
	require.NoError(t, s.products.Create(ctx, &domain.Product{ID: "orphan", AuthorID: "ghost", Advertise: true}))

	list, err := svc.Advertised(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	byID := map[string]int{}
	for i, it := range list {
		byID[it.ID] = i
	}
	require.Contains(t, byID, "ad")
	require.Contains(t, byID, "orphan")
	ad := list[byID["ad"]]
	require.NotNil(t, ad.Author)
	assert.Equal(t, "Sam", ad.Author.Name)
	assert.Nil(t, list[byID["orphan"]].Author)
}

func TestCheckoutService_CreateIntent(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewCheckoutService(gw, "")

	in, err := svc.CreateIntent(context.Background(), 12.34)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), gw.amount)
	assert.Equal(t, "usd", gw.currency)
	assert.Equal(t, "pi_1_secret", in.ClientSecret)

	_, err = svc.CreateIntent(context.Background(), -5)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = NewCheckoutService(&fakeGateway{err: payment.ErrDisabled}, "usd").CreateIntent(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
