package service

import (
	"context"
	"fmt"

	"used-market/internal/core/payment"
	"used-market/internal/domain"
)

type CheckoutService struct {
	gw       payment.Gateway
	currency string
}

func NewCheckoutService(gw payment.Gateway, currency string) *CheckoutService {
	if currency == "" {
		currency = "usd"
	}
	return &CheckoutService{gw: gw, currency: currency}
}

// CreateIntent 金额按 price*100 的最小货币单位提交
func (s *CheckoutService) CreateIntent(ctx context.Context, price float64) (*payment.Intent, error) {
	amount, err := payment.ToMinorUnits(price)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalid)
	}
	in, err := s.gw.CreateIntent(ctx, amount, s.currency)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w: %v", domain.ErrUpstream, err)
	}
	return in, nil
}
