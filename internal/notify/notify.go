// Package notify reports save failures and booking conflicts to operators.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"horario/internal/events"
)

// Notification is one operator-facing message.
type Notification struct {
	RestaurantID string
	Kind         string
	Text         string
}

// Notifier delivers notifications to operators.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// TelegramSender is the subset of tgbotapi.BotAPI used here.
type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts notifications to an operator chat. Messages beyond
// the rate limit are dropped and logged.
type TelegramNotifier struct {
	sender  TelegramSender
	chatID  int64
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// NewTelegramNotifier allows perMinute messages with a burst of the same size.
func NewTelegramNotifier(sender TelegramSender, chatID int64, perMinute int, logger *zerolog.Logger) *TelegramNotifier {
	if perMinute <= 0 {
		perMinute = 20
	}
	return &TelegramNotifier{
		sender:  sender,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute),
		logger:  logger,
	}
}

func (t *TelegramNotifier) Notify(_ context.Context, n Notification) error {
	if !t.limiter.Allow() {
		t.logger.Warn().Str("restaurant_id", n.RestaurantID).Str("kind", n.Kind).Msg("notification throttled")
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, format(n))
	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}
	return nil
}

// LogNotifier writes notifications to the log. Used when no chat is configured.
type LogNotifier struct {
	logger *zerolog.Logger
}

func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.logger.Warn().Str("restaurant_id", n.RestaurantID).Str("kind", n.Kind).Msg(n.Text)
	return nil
}

func format(n Notification) string {
	switch n.Kind {
	case events.ScheduleSaveFailed:
		return fmt.Sprintf("⚠️ Opening hours for %s could not be saved: %s\nChanges are kept and will be retried on the next edit.", n.RestaurantID, n.Text)
	case events.ConflictsDetected:
		return fmt.Sprintf("📅 Schedule change for %s conflicts with existing bookings: %s", n.RestaurantID, n.Text)
	}
	return fmt.Sprintf("%s: %s", n.RestaurantID, n.Text)
}

// Bind forwards save failures and conflict reports from bus to n.
func Bind(bus *events.EventBus, n Notifier) {
	forward := func(e events.Event) error {
		var p events.SavePayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		text := p.Error
		if text == "" {
			text = p.Message
		}
		return n.Notify(context.Background(), Notification{RestaurantID: e.RestaurantID, Kind: e.Type, Text: text})
	}
	bus.Subscribe(events.ScheduleSaveFailed, forward)
	bus.Subscribe(events.ConflictsDetected, forward)
}
