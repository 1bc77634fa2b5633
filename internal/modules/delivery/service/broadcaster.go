package service

import (
	"context"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"signal_bot/pkg/logger"
)

type BatchConfig struct {
	// Size после каждых Size сообщений пауза Pause, между остальными Delay
	Size  int
	Delay time.Duration
	Pause time.Duration
	// MaxRetries сколько раз повторяем после RetryAfter
	MaxRetries int
}

// Broadcaster рассылка одного текста пачками с учётом лимитов Telegram.
type Broadcaster struct {
	sender Sender
	cfg    BatchConfig
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewBroadcaster(sender Sender, cfg BatchConfig) *Broadcaster {
	if cfg.Size <= 0 {
		cfg.Size = 30
	}
	return &Broadcaster{sender: sender, cfg: cfg, sleep: sleepCtx}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Broadcast возвращает чаты, куда сообщение ушло.
// Ошибка только при отмене ctx, отказ отдельного чата просто пропускается.
func (b *Broadcaster) Broadcast(ctx context.Context, chatIDs []int64, text string) ([]int64, error) {
	sent := make([]int64, 0, len(chatIDs))
	for i, id := range chatIDs {
		ok, err := b.sendSafe(ctx, id, text)
		if err != nil {
			return sent, err
		}
		if ok {
			sent = append(sent, id)
		}

		if i == len(chatIDs)-1 {
			break
		}
		pause := b.cfg.Delay
		if (i+1)%b.cfg.Size == 0 {
			pause = b.cfg.Pause
		}
		if err := b.sleep(ctx, pause); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func (b *Broadcaster) sendSafe(ctx context.Context, chatID int64, text string) (bool, error) {
	msg := tgbot.NewMessage(chatID, text)
	msg.ParseMode = tgbot.ModeHTML
	msg.DisableWebPagePreview = true

	for attempt := 0; ; attempt++ {
		_, err := b.sender.Send(msg)
		if err == nil {
			return true, nil
		}

		var tgErr *tgbot.Error
		if !errors.As(err, &tgErr) || tgErr.RetryAfter <= 0 || attempt >= b.cfg.MaxRetries {
			logger.Warn("telegram send to %d failed: %v", chatID, err)
			return false, nil
		}

		wait := time.Duration(tgErr.RetryAfter) * time.Second
		logger.Warn("telegram rate limited, chat %d, retry in %s", chatID, wait)
		if err := b.sleep(ctx, wait); err != nil {
			return false, err
		}
	}
}
