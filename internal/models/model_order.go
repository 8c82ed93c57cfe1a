package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/digideal/paygate/pkg/types"
)

// Order 店铺订单. Status is driven by admins and by verified gateway callbacks;
// PaymentStatus and PaymentID are written only by the webhook verifier.
type Order struct {
	ID            string                                `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email         *string                               `gorm:"column:email;type:varchar(255)" json:"email"`
	Telegram      *string                               `gorm:"column:telegram;type:varchar(128)" json:"telegram"`
	Items         datatypes.JSONType[[]types.OrderItem] `gorm:"column:items;type:jsonb;default:'[]'" json:"items"`
	TotalAmount   decimal.Decimal                       `gorm:"column:total_amount;type:numeric(20,8);not null" json:"total_amount"`
	Currency      types.Currency                        `gorm:"column:currency;type:varchar(16);not null" json:"currency"`
	Description   string                                `gorm:"column:description;type:varchar(255);not null;default:''" json:"description"`
	Status        types.OrderStatus                     `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	PaymentStatus types.PaymentStatus                   `gorm:"column:payment_status;type:varchar(32);not null;index" json:"payment_status"`
	// PaymentID 网关支付单号, set from the first verified callback carrying one.
	PaymentID string    `gorm:"column:payment_id;type:varchar(128);not null;default:''" json:"payment_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// Payable reports whether a new payment attempt may be started for the order:
// either nothing was charged yet, or the gateway declined the previous attempt.
func (o *Order) Payable() bool {
	if o == nil {
		return false
	}
	switch o.PaymentStatus {
	case types.PaymentStatusPending:
		return o.Status == types.OrderStatusPending
	case types.PaymentStatusFailed:
		return o.Status == types.OrderStatusPending || o.Status == types.OrderStatusCancelled
	default:
		return false
	}
}
