package payment

import (
	"context"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// Omise 没有 payment intent，用 source 代替：前端拿 source id 完成付款
type Omise struct {
	c          *omise.Client
	sourceType string
}

func NewOmise(pub, sec, sourceType string) (*Omise, error) {
	c, err := omise.NewClient(pub, sec)
	if err != nil {
		return nil, err
	}
	if sourceType == "" {
		sourceType = "promptpay"
	}
	return &Omise{c: c, sourceType: sourceType}, nil
}

func (o *Omise) CreateIntent(_ context.Context, amount int64, currency string) (*Intent, error) {
	src := &omise.Source{}
	req := &operations.CreateSource{
		Type:     o.sourceType,
		Amount:   amount,
		Currency: currency,
	}
	if err := o.c.Do(src, req); err != nil {
		return nil, err
	}
	return &Intent{ID: src.ID, ClientSecret: src.ID, Amount: src.Amount, Currency: src.Currency}, nil
}
