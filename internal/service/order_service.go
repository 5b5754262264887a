package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"used-market/internal/core/events"
	"used-market/internal/domain"
	"used-market/internal/readmodel"
)

// 下单级联的步骤名
const (
	StepMarkSold       = "mark_sold"
	StepRemoveWishlist = "remove_wishlist"
)

// OrderCascadeError 订单已写入，但后续某一步失败；不做补偿
type OrderCascadeError struct {
	OrderID string
	Step    string
	Err     error
}

func (e *OrderCascadeError) Error() string {
	return fmt.Sprintf("order %s created but %s failed: %v", e.OrderID, e.Step, e.Err)
}

func (e *OrderCascadeError) Unwrap() error { return e.Err }

type PlaceOrderInput struct {
	ProductID     string
	CustomerID    string
	Price         float64
	Date          time.Time
	TransactionID string
}

type PlaceOrderResult struct {
	Order           *domain.Order `json:"order"`
	ProductUpdated  int64         `json:"productUpdated"`
	WishlistRemoved int64         `json:"wishlistRemoved"`
}

type OrderService struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
	wishlist domain.WishlistRepository
	events   events.Publisher
	log      *zap.Logger
}

func NewOrderService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	wishlist domain.WishlistRepository,
	pub events.Publisher,
	l *zap.Logger,
) *OrderService {
	if pub == nil {
		pub = events.Nop{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &OrderService{orders: orders, products: products, wishlist: wishlist, events: pub, log: l}
}

// Place 写订单 → 标记售出 → 删除该用户对该商品的心愿单。
// 三步依次执行，没有事务；后两步失败时订单保留，返回 *OrderCascadeError。
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if in.ProductID == "" || in.CustomerID == "" {
		return nil, fmt.Errorf("productID and customer_id required: %w", domain.ErrInvalid)
	}
	p, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("product %s: %w", in.ProductID, domain.ErrNotFound)
	}
	// 预检查，并发下仍可能重复下单
	if p.Sold() {
		return nil, fmt.Errorf("product %s already sold: %w", in.ProductID, domain.ErrConflict)
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	if in.Price == 0 {
		in.Price = p.Price
	}

	o := &domain.Order{
		ProductID:     in.ProductID,
		CustomerID:    in.CustomerID,
		Date:          in.Date,
		Price:         in.Price,
		TransactionID: in.TransactionID,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	res := &PlaceOrderResult{Order: o}

	if res.ProductUpdated, err = s.products.MarkSold(ctx, o.ProductID); err != nil {
		s.log.Error("order cascade failed", zap.String("order_id", o.ID), zap.String("step", StepMarkSold), zap.Error(err))
		return res, &OrderCascadeError{OrderID: o.ID, Step: StepMarkSold, Err: err}
	}
	if res.WishlistRemoved, err = s.wishlist.DeleteByPair(ctx, o.CustomerID, o.ProductID); err != nil {
		s.log.Error("order cascade failed", zap.String("order_id", o.ID), zap.String("step", StepRemoveWishlist), zap.Error(err))
		return res, &OrderCascadeError{OrderID: o.ID, Step: StepRemoveWishlist, Err: err}
	}

	if e := s.events.PublishJSON(ctx, events.OrderPlaced, o); e != nil {
		s.log.Warn("publish order.placed", zap.String("order_id", o.ID), zap.Error(e))
	}
	return res, nil
}

func (s *OrderService) ByCustomer(ctx context.Context, uid string) ([]readmodel.OrderItem, error) {
	orders, err := s.orders.FindByCustomer(ctx, uid)
	if err != nil {
		return nil, err
	}
	ids := readmodel.Keys(orders, func(o *domain.Order) string { return o.ProductID })
	var products []domain.Product
	if len(ids) > 0 {
		if products, err = s.products.Find(ctx, domain.ProductFilter{IDs: ids}); err != nil {
			return nil, err
		}
	}
	return readmodel.OrdersWithProducts(orders, products), nil
}
