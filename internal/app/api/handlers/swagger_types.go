package handlers

import (
	"github.com/digideal/paygate/internal/app/service/checkout"
	"github.com/digideal/paygate/internal/app/service/statistics"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	"github.com/digideal/paygate/pkg/response"
)

// Envelope types for swagger; swag cannot render generic response.APIResponse[T].

// RespOK is a generic envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespHealth struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]string        `json:"data"`
}

type RespCheckout struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    checkout.CheckoutResponse `json:"data"`
}

type RespOrderStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    OrderStatusResponse      `json:"data"`
}

type RespListOrders struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListOrdersResponse       `json:"data"`
}

type RespOrder struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    OrderItem                `json:"data"`
}

type RespListWebhookLogs struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    webhook_log.ListResponse `json:"data"`
}

type RespOrderStatistic struct {
	Code    response.APIResponseCode          `json:"code"`
	Message string                            `json:"message"`
	Data    statistics.OrderStatisticResponse `json:"data"`
}

type RespLogin struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    LoginResponse            `json:"data"`
}
