package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/digideal/paygate/pkg/config"
	"github.com/digideal/paygate/pkg/logctx"
)

// OrderPaidNotice describes a payment confirmed by a verified callback.
type OrderPaidNotice struct {
	OrderID   string
	Amount    string
	Currency  string
	PaymentID string
}

type Notifier interface {
	OrderPaid(ctx context.Context, n OrderPaidNotice) error
}

// Nop is used when no Telegram bot is configured.
type Nop struct{}

func (Nop) OrderPaid(context.Context, OrderPaidNotice) error { return nil }

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Telegram sends operator notifications through the Bot API.
type Telegram struct {
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker
	token   string
	chatID  string
	log     *zap.SugaredLogger
}

func NewTelegram(cfg config.TelegramConfig, log *zap.SugaredLogger) *Telegram {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.APIBase, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("circuit_breaker_state_changed", "circuit", name, "from", from.String(), "to", to.String())
		},
	})

	return &Telegram{client: client, breaker: breaker, token: cfg.BotToken, chatID: cfg.ChatID, log: log}
}

func formatOrderPaid(n OrderPaidNotice) string {
	var sb strings.Builder
	sb.WriteString("💳 <b>Заказ оплачен</b>\n\n")
	fmt.Fprintf(&sb, "Заказ: <code>%s</code>\n", html.EscapeString(n.OrderID))
	fmt.Fprintf(&sb, "Сумма: %s %s\n", html.EscapeString(n.Amount), html.EscapeString(n.Currency))
	if n.PaymentID != "" {
		fmt.Fprintf(&sb, "Платёж: <code>%s</code>\n", html.EscapeString(n.PaymentID))
	}
	return sb.String()
}

func (t *Telegram) OrderPaid(ctx context.Context, n OrderPaidNotice) error {
	_, err := t.breaker.Execute(func() (interface{}, error) {
		var out sendMessageResponse
		resp, err := t.client.R().
			SetContext(ctx).
			SetBody(sendMessageRequest{ChatID: t.chatID, Text: formatOrderPaid(n), ParseMode: "HTML"}).
			SetResult(&out).
			SetError(&out).
			Post("/bot" + t.token + "/sendMessage")
		if err != nil {
			return nil, err
		}
		if resp.IsError() || !out.OK {
			return nil, fmt.Errorf("telegram sendMessage: status %d: %s", resp.StatusCode(), out.Description)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logctx.FromCtx(ctx, t.log).Warnw("telegram_notify_skipped", "order_id", n.OrderID, "reason", err.Error())
		}
		return err
	}
	return nil
}

func New(cfg *config.Config, log *zap.SugaredLogger) Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
		log.Infow("telegram notifier disabled")
		return Nop{}
	}
	return NewTelegram(cfg.Telegram, log)
}

var Module = fx.Options(
	fx.Provide(New),
)
