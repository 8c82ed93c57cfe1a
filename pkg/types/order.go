package types

import "github.com/samber/lo"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	return lo.Contains(orderStatuses, s)
}

// PaymentStatus is derived from gateway callbacks only.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// OrderItem is a snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID    string `json:"product_id" binding:"required"`
	ProductTitle string `json:"product_title"`
	VariantID    string `json:"variant_id"`
	VariantName  string `json:"variant_name"`
}
