package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"signal_bot/internal/models"
)

// Publisher внешний поток сигналов.
type Publisher interface {
	Publish(ctx context.Context, sig models.Signal) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Signal) error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher пишет сигнал JSON-ом, ключ = пара.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
	}}
}

func signalMessage(sig models.Signal) (kafka.Message, error) {
	value, err := sonic.Marshal(sig)
	if err != nil {
		return kafka.Message{}, errors.Wrap(err, "marshal signal")
	}
	return kafka.Message{
		Key:   []byte(sig.Pair),
		Value: value,
		Time:  sig.CreatedAt,
		Headers: []kafka.Header{
			{Key: "side", Value: []byte(sig.Side.String())},
			{Key: "signal_id", Value: []byte(sig.ID.String())},
		},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, sig models.Signal) error {
	msg, err := signalMessage(sig)
	if err != nil {
		return err
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return errors.Wrapf(err, "kafka publish %s", sig.Pair)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }
