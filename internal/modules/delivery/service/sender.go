package service

import (
	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/pkg/logger"
)

// Sender то, что нужно от *tgbot.BotAPI.
type Sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// LogSender пишет сообщения в лог, когда токен бота не задан.
type LogSender struct{}

func (LogSender) Send(c tgbot.Chattable) (tgbot.Message, error) {
	if m, ok := c.(tgbot.MessageConfig); ok {
		logger.Info("[TG dry-run] chat=%d\n%s", m.ChatID, m.Text)
		return tgbot.Message{Text: m.Text}, nil
	}
	logger.Info("[TG dry-run] %T", c)
	return tgbot.Message{}, nil
}
