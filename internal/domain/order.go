package domain

import (
	"context"
	"time"
)

type Order struct {
	ID            string    `gorm:"primaryKey;size:36" json:"_id"`
	ProductID     string    `gorm:"index;size:36;not null" json:"productID"`
	CustomerID    string    `gorm:"index;size:128;not null" json:"customer_id"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	TransactionID string    `gorm:"size:191" json:"transactionId,omitempty"`
}

type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	FindByCustomer(ctx context.Context, customerID string) ([]Order, error)
}
