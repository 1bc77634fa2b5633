package service

import (
	"context"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"
)

type Journal interface {
	Record(ctx context.Context, sig models.Signal, chatID int64) error
}

// Dispatcher доставка сигнала: kafka, telegram, журнал.
type Dispatcher struct {
	bc        *Broadcaster
	publisher Publisher
	journal   Journal
	m         *metrics.Metrics
}

func NewDispatcher(bc *Broadcaster, publisher Publisher, journal Journal, m *metrics.Metrics) *Dispatcher {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if m == nil {
		m = metrics.Nop()
	}
	return &Dispatcher{bc: bc, publisher: publisher, journal: journal, m: m}
}

// Deliver сбои kafka и журнала логируются и не мешают рассылке.
// Ошибка только если рассылку прервал ctx.
func (d *Dispatcher) Deliver(ctx context.Context, sig models.Signal, recipients []int64) (int, error) {
	if err := d.publisher.Publish(ctx, sig); err != nil {
		d.m.DeliveredTotal.WithLabelValues("kafka", "error").Inc()
		logger.Error("deliver %s: %v", sig.Pair, err)
	} else {
		d.m.DeliveredTotal.WithLabelValues("kafka", "ok").Inc()
	}

	sent, err := d.bc.Broadcast(ctx, recipients, FormatHTML(sig))
	d.m.DeliveredTotal.WithLabelValues("telegram", "ok").Add(float64(len(sent)))
	if failed := len(recipients) - len(sent); failed > 0 && err == nil {
		d.m.DeliveredTotal.WithLabelValues("telegram", "error").Add(float64(failed))
	}

	if d.journal != nil {
		for _, chatID := range sent {
			if jErr := d.journal.Record(ctx, sig, chatID); jErr != nil {
				logger.Error("journal %s -> %d: %v", sig.Pair, chatID, jErr)
			}
		}
	}
	return len(sent), err
}
