package readmodel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"used-market/internal/domain"
)

func TestWishlistWithProducts_AttachesByID(t *testing.T) {
	sold := true
	products := []domain.Product{
		{ID: "p1", AuthorID: "seller", Name: "Lamp", Price: 12.5},
		{ID: "p2", AuthorID: "seller", Name: "Desk", Price: 80, Sell: &sold},
	}
	entries := []domain.WishlistEntry{
		{ID: "w1", AuthorID: "u1", ProductID: "p2"},
		{ID: "w2", AuthorID: "u1", ProductID: "p1"},
	}

	got := WishlistWithProducts(entries, products)
	require.Len(t, got, 2)
	assert.Equal(t, "w1", got[0].ID)
	require.NotNil(t, got[0].Product)
	assert.Equal(t, products[1], *got[0].Product)
	require.NotNil(t, got[1].Product)
	assert.Equal(t, products[0], *got[1].Product)

	// 视图是副本
	*got[0].Product.Sell = false
	assert.True(t, *products[1].Sell)
}

func TestWishlistWithProducts_MissingProductIsOmitted(t *testing.T) {
	got := WishlistWithProducts([]domain.WishlistEntry{{ID: "w1", AuthorID: "u1", ProductID: "gone"}}, nil)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Product)

	b, err := json.Marshal(got[0])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.NotContains(t, m, "product")
	assert.Equal(t, "gone", m["productID"])
}

func TestOrdersWithProducts_FirstMatchWins(t *testing.T) {
	products := []domain.Product{
		{ID: "p1", Name: "first"},
		{ID: "p1", Name: "second"},
	}
	got := OrdersWithProducts([]domain.Order{{ID: "o1", ProductID: "p1", CustomerID: "u1"}}, products)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Product)
	assert.Equal(t, "first", got[0].Product.Name)
}

func TestAdvertisedWithAuthors_StripsIdentity(t *testing.T) {
	users := []domain.User{{ID: "x", UID: "seller", Name: "Sam", Email: "s@x.io", Role: domain.RoleAdmin, Verified: true}}
	products := []domain.Product{
		{ID: "p1", AuthorID: "seller", Advertise: true},
		{ID: "p2", AuthorID: "nobody", Advertise: true},
	}

	got := AdvertisedWithAuthors(products, users)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Author)
	assert.Equal(t, AuthorView{Name: "Sam", Email: "s@x.io", Verified: true}, *got[0].Author)
	assert.Nil(t, got[1].Author)

	b, err := json.Marshal(got[0])
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	author := m["author"].(map[string]any)
	assert.NotContains(t, author, "uid")
	assert.NotContains(t, author, "role")
}

func TestKeys_Dedup(t *testing.T) {
	orders := []domain.Order{{ProductID: "a"}, {ProductID: "b"}, {ProductID: "a"}, {ProductID: ""}}
	assert.Equal(t, []string{"a", "b"}, Keys(orders, func(o *domain.Order) string { return o.ProductID }))
}
