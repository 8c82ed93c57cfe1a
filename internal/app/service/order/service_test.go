package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/digideal/paygate/pkg/types"
)

func TestCreate_Validation(t *testing.T) {
	s := NewService(nil, zap.NewNop().Sugar())
	valid := func() *CreateOrderRequest {
		return &CreateOrderRequest{
			Items:       []types.OrderItem{{ProductID: "p1"}},
			TotalAmount: decimal.NewFromInt(10),
			Currency:    types.CurrencyUSD,
		}
	}

	cases := map[string]func(*CreateOrderRequest){
		"no items":        func(r *CreateOrderRequest) { r.Items = nil },
		"zero amount":     func(r *CreateOrderRequest) { r.TotalAmount = decimal.Zero },
		"bad currency":    func(r *CreateOrderRequest) { r.Currency = "RUB" },
		"negative amount": func(r *CreateOrderRequest) { r.TotalAmount = decimal.NewFromInt(-5) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid()
			mutate(r)
			_, err := s.Create(context.Background(), r)
			require.ErrorIs(t, err, ErrInvalidOrder)
		})
	}

	_, err := s.Create(context.Background(), nil)
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestScan_RejectsUnknownColumns(t *testing.T) {
	s := NewService(nil, zap.NewNop().Sugar())

	_, err := s.Scan(context.Background(), &ScanOrdersRequest{
		Filters: []*types.CommonFilter{{Field: "secret_column", Operator: types.CommonFilterOperatorEq, Values: []any{1}}},
	})
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = s.Scan(context.Background(), &ScanOrdersRequest{SortBy: "created_at; drop table orders"})
	require.ErrorIs(t, err, ErrInvalidOrder)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	s := NewService(nil, zap.NewNop().Sugar())
	_, err := s.UpdateStatus(context.Background(), "id", "shipped")
	require.ErrorIs(t, err, ErrInvalidOrderStatus)
}
