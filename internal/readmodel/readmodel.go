// Package readmodel 把关联实体拼进响应结构，不访问存储。
//
// 每个根记录最多挂一条关联记录：按外键等值匹配，取输入顺序中的第一条。
// 找不到关联记录时字段为 nil（JSON 中省略），不视为错误。
package readmodel

import "used-market/internal/domain"

// AuthorView 作者信息对外投影，去掉 uid 与 role
type AuthorView struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL"`
	Verified bool   `json:"verified"`
}

type WishlistItem struct {
	domain.WishlistEntry
	Product *domain.Product `json:"product,omitempty"`
}

type OrderItem struct {
	domain.Order
	Product *domain.Product `json:"product,omitempty"`
}

type AdvertisedProduct struct {
	domain.Product
	Author *AuthorView `json:"author,omitempty"`
}

// firstBy 建立 key -> 第一条记录 的索引
func firstBy[K comparable, T any](items []T, key func(*T) K) map[K]*T {
	idx := make(map[K]*T, len(items))
	for i := range items {
		k := key(&items[i])
		if _, ok := idx[k]; !ok {
			idx[k] = &items[i]
		}
	}
	return idx
}

func productByID(products []domain.Product) map[string]*domain.Product {
	return firstBy(products, func(p *domain.Product) string { return p.ID })
}

// cloneProduct 返回副本，避免多个视图共享同一指针
func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Sell != nil {
		s := *p.Sell
		cp.Sell = &s
	}
	return &cp
}

func WishlistWithProducts(entries []domain.WishlistEntry, products []domain.Product) []WishlistItem {
	idx := productByID(products)
	out := make([]WishlistItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, WishlistItem{WishlistEntry: e, Product: cloneProduct(idx[e.ProductID])})
	}
	return out
}

func OrdersWithProducts(orders []domain.Order, products []domain.Product) []OrderItem {
	idx := productByID(products)
	out := make([]OrderItem, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderItem{Order: o, Product: cloneProduct(idx[o.ProductID])})
	}
	return out
}

func Author(u *domain.User) *AuthorView {
	if u == nil {
		return nil
	}
	return &AuthorView{Name: u.Name, Email: u.Email, PhotoURL: u.PhotoURL, Verified: u.Verified}
}

func AdvertisedWithAuthors(products []domain.Product, users []domain.User) []AdvertisedProduct {
	idx := firstBy(users, func(u *domain.User) string { return u.UID })
	out := make([]AdvertisedProduct, 0, len(products))
	for _, p := range products {
		out = append(out, AdvertisedProduct{Product: p, Author: Author(idx[p.AuthorID])})
	}
	return out
}

// Keys 收集去重后的外键，供批量查询
func Keys[T any](items []T, key func(*T) string) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for i := range items {
		id := key(&items[i])
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
