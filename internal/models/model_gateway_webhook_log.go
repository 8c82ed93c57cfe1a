package models

import (
	"time"

	"gorm.io/datatypes"
)

type GatewayWebhookLogStatus string

const (
	GatewayWebhookLogStatusReceived     GatewayWebhookLogStatus = "received"
	GatewayWebhookLogStatusHandled      GatewayWebhookLogStatus = "handled"
	GatewayWebhookLogStatusRejected     GatewayWebhookLogStatus = "rejected"
	GatewayWebhookLogStatusHandleFailed GatewayWebhookLogStatus = "handle_failed"
)

// GatewayWebhookLog is the audit trail of every gateway callback, including
// rejected ones.
type GatewayWebhookLog struct {
	ID            string                  `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID    string                  `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	TraceID       string                  `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	OperationID   string                  `gorm:"column:operation_id;type:varchar(64);index" json:"operation_id"`
	GatewayStatus string                  `gorm:"column:gateway_status;type:varchar(16)" json:"gateway_status"`
	ReceivedAt    time.Time               `gorm:"column:received_at" json:"received_at"`
	Data          datatypes.JSON          `gorm:"column:data;type:jsonb" json:"data"`
	Result        *datatypes.JSON         `gorm:"column:result;type:jsonb" json:"result"`
	Status        GatewayWebhookLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

func (GatewayWebhookLog) TableName() string { return "gateway_webhook_log" }
