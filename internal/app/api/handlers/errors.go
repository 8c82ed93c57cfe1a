package handlers

import (
	"errors"

	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/internal/app/service/checkout"
	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/app/service/statistics"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/pkg/response"
)

// errorCode maps service errors onto envelope codes.
func errorCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, order.ErrInvalidOrder),
		errors.Is(err, order.ErrInvalidOrderStatus),
		errors.Is(err, capitalist.ErrInvalidIntent),
		errors.Is(err, statistics.ErrInvalidRequest),
		errors.Is(err, webhook_log.ErrInvalidRequest):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, checkout.ErrOrderNotPayable):
		return response.APIResponseCodeConflict
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrLoginDisabled):
		return response.APIResponseCodeUnauthorized
	default:
		return response.APIResponseCodeError
	}
}

// errorBody hides internal error details from clients.
func errorBody(err error) *response.APIResponse[any] {
	code := errorCode(err)
	if code == response.APIResponseCodeError {
		return response.ErrorT[any](code, nil)
	}
	return response.ErrorT[any](code, err.Error())
}
