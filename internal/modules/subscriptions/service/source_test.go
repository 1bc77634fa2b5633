package service

import (
	"context"
	"testing"
)

func TestStaticSource(t *testing.T) {
	s := NewStatic([]string{"ethusdt", "BTCUSDT", "ETHUSDT", ""}, []int64{1, 2})

	pairs, err := s.Pairs(context.Background())
	if err != nil {
		t.Fatalf("pairs: %v", err)
	}
	if len(pairs) != 2 || pairs[0] != "BTCUSDT" || pairs[1] != "ETHUSDT" {
		t.Fatalf("pairs = %v", pairs)
	}

	rec, err := s.Recipients(context.Background())
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(rec) != 2 || len(rec["ETHUSDT"]) != 2 || rec["ETHUSDT"][1] != 2 {
		t.Fatalf("recipients = %v", rec)
	}

	// копия, а не общий слайс
	rec["BTCUSDT"][0] = 99
	again, _ := s.Recipients(context.Background())
	if again["BTCUSDT"][0] != 1 {
		t.Fatalf("recipients share memory")
	}
}
