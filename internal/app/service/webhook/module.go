package webhook

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// drainOnStop lets in-flight notifications and events finish before the
// Kafka writer and the process go away.
func drainOnStop(lc fx.Lifecycle, h *Handler, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := h.Wait(ctx); err != nil {
				log.Warnw("webhook_side_effects_abandoned", "error", err)
			}
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(drainOnStop),
)
