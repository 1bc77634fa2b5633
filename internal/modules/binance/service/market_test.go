package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{RestURL: srv.URL, Timeout: time.Second})
}

func TestTicker24h(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" || r.URL.Query().Get("symbol") != "BTCUSDT" {
			t.Errorf("unexpected request %s", r.URL)
		}
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","lastPrice":"64250.10","volume":"1234.5","count":10}`))
	})

	q, err := c.Ticker24h(context.Background(), "btcusdt")
	if err != nil {
		t.Fatalf("ticker: %v", err)
	}
	if q.Price != 64250.10 || q.Volume != 1234.5 {
		t.Fatalf("quote = %+v", q)
	}
}

func TestTicker24hAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})

	_, err := c.Ticker24h(context.Background(), "NOPE")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want APIError", err)
	}
	if apiErr.Code != -1121 || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("api error = %+v", apiErr)
	}
}

func TestTicker24hBadPrice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"lastPrice":"abc","volume":"1"}`))
	})
	if _, err := c.Ticker24h(context.Background(), "BTCUSDT"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestKlines(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("interval") != "1h" || q.Get("limit") != "1000" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[
			[1700002800123,"10","12","9","11","100",1700006399999,"0",1,"0","0","0"],
			[1700006400000,"11","13","10","12.5","50",1700009999999,"0",1,"0","0","0"]
		]`))
	})

	candles, err := c.Klines(context.Background(), "ETHUSDT", "1H", 5000)
	if err != nil {
		t.Fatalf("klines: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("len = %d", len(candles))
	}
	first := candles[0]
	if first.Bucket != 1700002800 || first.Open != 10 || first.High != 12 || first.Low != 9 || first.Close != 11 || first.Volume != 100 {
		t.Fatalf("first = %+v", first)
	}
	if candles[1].Bucket-first.Bucket != 3600 {
		t.Fatalf("bucket step = %d", candles[1].Bucket-first.Bucket)
	}
}

func TestKlinesRejectsUnsupportedTimeframe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected")
	})
	if _, err := c.Klines(context.Background(), "BTCUSDT", "3m", 10); err == nil {
		t.Fatalf("expected error")
	}
}

func TestKlinesMalformedRow(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[1700000000000,"1","2"]]`))
	})
	if _, err := c.Klines(context.Background(), "BTCUSDT", "1m", 10); err == nil {
		t.Fatalf("expected error")
	}
}
