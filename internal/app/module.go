package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/digideal/paygate/internal/app/api/server"
	"github.com/digideal/paygate/internal/app/service/auth"
	"github.com/digideal/paygate/internal/app/service/checkout"
	"github.com/digideal/paygate/internal/app/service/events"
	"github.com/digideal/paygate/internal/app/service/notifier"
	"github.com/digideal/paygate/internal/app/service/order"
	"github.com/digideal/paygate/internal/app/service/statistics"
	"github.com/digideal/paygate/internal/app/service/webhook"
	"github.com/digideal/paygate/internal/app/service/webhook_log"
	"github.com/digideal/paygate/internal/platform/capitalist"
	"github.com/digideal/paygate/internal/platform/db"
	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	capitalist.Module,
	order.Module,
	webhook_log.Module,
	events.Module,
	notifier.Module,
	webhook.Module,
	checkout.Module,
	statistics.Module,
	auth.Module,
	server.Module,
)
