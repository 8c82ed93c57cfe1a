package webhook_log

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/digideal/paygate/internal/models"
	"github.com/digideal/paygate/pkg/logctx"
	"github.com/digideal/paygate/pkg/tool"
	"github.com/digideal/paygate/pkg/types"
)

var ErrInvalidRequest = errors.New("invalid webhook log request")

// Recorder persists webhook audit entries.
type Recorder interface {
	Save(ctx context.Context, log *models.GatewayWebhookLog)
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save persists a webhook log entry. Nil input is ignored; failures are logged
// and never returned, so auditing cannot fail a callback.
func (s *Service) Save(ctx context.Context, log *models.GatewayWebhookLog) {
	if log == nil {
		return
	}
	if log.ID == "" {
		log.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorw("webhook_log_save_failed", "error", err, "operation_id", log.OperationID, "status", log.Status)
	}
}

type ListRequest struct {
	Filters []*types.CommonFilter `json:"filters"`
	From    int                   `json:"from"`
	Size    int                   `json:"size"`
}

type ListResponse struct {
	Items []*models.GatewayWebhookLog `json:"items"`
	Total int64                       `json:"total"`
}

var listFields = []string{"operation_id", "status", "gateway_status", "trace_id", "received_at"}

// List returns audit entries newest first.
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	for _, f := range req.Filters {
		if err := f.Validate(listFields); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if req.Size <= 0 {
		req.Size = 50
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.GatewayWebhookLog{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count webhook logs: %w", err)
	}
	var rows []*models.GatewayWebhookLog
	if err := tx.Order("created_at DESC").Limit(req.Size).Offset(req.From).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list webhook logs: %w", err)
	}
	return &ListResponse{Items: rows, Total: total}, nil
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(func(s *Service) Recorder { return s }),
)
