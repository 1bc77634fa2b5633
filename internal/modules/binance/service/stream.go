package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"signal_bot/internal/helper"
	"signal_bot/pkg/logger"
)

// Ticker событие miniTicker.
type Ticker struct {
	Pair   string
	Price  float64
	Volume float64
	At     time.Time
}

// StreamHooks колбэки стрима, любой может быть nil.
type StreamHooks struct {
	OnTicker    func(Ticker)
	OnConnected func(bool)
	OnReconnect func()
}

type miniTickerFrame struct {
	Stream string `json:"stream"`
	Data   struct {
		Event     string `json:"e"`
		EventTime int64  `json:"E"`
		Symbol    string `json:"s"`
		Close     string `json:"c"`
		Volume    string `json:"v"`
	} `json:"data"`
}

func streamURL(base string, pairs []string) string {
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, strings.ToLower(helper.NormPair(p))+"@miniTicker")
	}
	return base + "/stream?streams=" + strings.Join(names, "/")
}

// StreamMiniTicker держит combined-стрим miniTicker до отмены ctx,
// переподключаясь с backoff до 30s.
func (c *Client) StreamMiniTicker(ctx context.Context, pairs []string, hooks StreamHooks) {
	if len(pairs) == 0 {
		return
	}
	u := streamURL(c.wsURL, pairs)
	backoff := time.Second

	for {
		err := c.readStream(ctx, u, hooks)
		if hooks.OnConnected != nil {
			hooks.OnConnected(false)
		}
		if ctx.Err() != nil {
			return
		}
		logger.Warn("[WS] miniTicker stream dropped: %v, retry in %s", err, backoff)
		if hooks.OnReconnect != nil {
			hooks.OnReconnect()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *Client) readStream(ctx context.Context, u string, hooks StreamHooks) error {
	conn, _, err := c.wsDialer.DialContext(ctx, u, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	// закрываем сокет при отмене, чтобы ReadMessage вернулся
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if hooks.OnConnected != nil {
		hooks.OnConnected(true)
	}
	logger.Info("[WS] miniTicker connected")

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		t, ok := parseMiniTicker(msg)
		if !ok || hooks.OnTicker == nil {
			continue
		}
		hooks.OnTicker(t)
	}
}

func parseMiniTicker(msg []byte) (Ticker, bool) {
	var frame miniTickerFrame
	if err := sonic.Unmarshal(msg, &frame); err != nil {
		return Ticker{}, false
	}
	if frame.Data.Event != "24hrMiniTicker" || frame.Data.Symbol == "" {
		return Ticker{}, false
	}
	price, err := strconv.ParseFloat(frame.Data.Close, 64)
	if err != nil || price <= 0 {
		return Ticker{}, false
	}
	volume, err := strconv.ParseFloat(frame.Data.Volume, 64)
	if err != nil || volume < 0 {
		return Ticker{}, false
	}
	return Ticker{
		Pair:   helper.NormPair(frame.Data.Symbol),
		Price:  price,
		Volume: volume,
		At:     time.UnixMilli(frame.Data.EventTime),
	}, true
}
