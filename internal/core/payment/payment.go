// Package payment 把支付意图的创建委托给外部支付服务商。
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"used-market/internal/core/config"
)

var ErrDisabled = errors.New("payment provider disabled")

// Intent 返回给前端的支付凭据
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*Intent, error)
}

// ToMinorUnits price*100，四舍五入到最小货币单位
func ToMinorUnits(price float64) (int64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("invalid price %v", price)
	}
	return int64(math.Round(price * 100)), nil
}

type disabled struct{}

func (disabled) CreateIntent(context.Context, int64, string) (*Intent, error) {
	return nil, ErrDisabled
}

func New(c config.Payment) (Gateway, error) {
	switch c.Provider {
	case "stripe":
		if c.StripeKey == "" {
			return nil, errors.New("stripe: missing secret key")
		}
		return NewStripe(c.StripeKey), nil
	case "omise":
		return NewOmise(c.OmisePublicKey, c.OmiseSecretKey, c.OmiseSource)
	case "", "none":
		return disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", c.Provider)
	}
}
