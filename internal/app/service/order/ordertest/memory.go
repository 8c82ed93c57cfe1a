// Package ordertest provides an in-memory order.Store for tests.
package ordertest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/pkg/tool"
	"github.com/digideal/paygate/pkg/types"
)

// MemoryStore mirrors the semantics of the gorm store. Scan ignores filters.
type MemoryStore struct {
	mu     sync.Mutex
	orders map[string]models.Order

	// Err, when set, is returned by every write.
	Err error
	// Writes counts ApplyPayment calls that reached the store.
	Writes int
}

var _ order.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: map[string]models.Order{}}
}

// Put inserts o as is.
func (m *MemoryStore) Put(o models.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	m.orders[o.ID] = o
}

func (m *MemoryStore) Create(_ context.Context, req *order.CreateOrderRequest) (*models.Order, error) {
	if req == nil || len(req.Items) == 0 || !req.TotalAmount.IsPositive() || !req.Currency.Supported() {
		return nil, fmt.Errorf("%w: rejected by memory store", order.ErrInvalidOrder)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o := models.Order{
		ID:            tool.GenerateUUIDV7(),
		Items:         datatypes.NewJSONType(req.Items),
		TotalAmount:   req.TotalAmount,
		Currency:      req.Currency,
		Description:   req.Description,
		Status:        types.OrderStatusPending,
		PaymentStatus: types.PaymentStatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if req.Email != "" {
		o.Email = &req.Email
	}
	if req.Telegram != "" {
		o.Telegram = &req.Telegram
	}
	m.orders[o.ID] = o
	return &o, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", order.ErrOrderNotFound, id)
	}
	return &o, nil
}

func (m *MemoryStore) ApplyPayment(ctx context.Context, id string, u order.PaymentUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.Err != nil {
		return m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", order.ErrOrderNotFound, id)
	}
	o.PaymentStatus = u.PaymentStatus
	o.Status = u.OrderStatus
	if o.PaymentID == "" {
		o.PaymentID = u.PaymentID
	}
	o.UpdatedAt = time.Now()
	m.orders[id] = o
	return nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status types.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", order.ErrInvalidOrderStatus, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", order.ErrOrderNotFound, id)
	}
	o.Status = status
	m.orders[id] = o
	return &o, nil
}

func (m *MemoryStore) Scan(_ context.Context, req *order.ScanOrdersRequest) (*order.ScanOrdersResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]*models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		o := o
		items = append(items, &o)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })

	total := int64(len(items))
	from, size := req.From, req.Size
	if size <= 0 {
		size = 20
	}
	if from > len(items) {
		from = len(items)
	}
	end := from + size
	if end > len(items) {
		end = len(items)
	}
	return &order.ScanOrdersResponse{Items: items[from:end], Total: total}, nil
}
