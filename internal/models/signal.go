package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Side направление сигнала. Значений ровно два.
type Side uint8

const (
	SideLong Side = iota
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "LONG"
	case SideShort:
		return "SHORT"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

func (s Side) MarshalText() ([]byte, error) {
	switch s {
	case SideLong, SideShort:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("unknown side %d", uint8(s))
	}
}

func (s *Side) UnmarshalText(b []byte) error {
	v, err := ParseSide(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseSide(raw string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "LONG":
		return SideLong, nil
	case "SHORT":
		return SideShort, nil
	default:
		return 0, fmt.Errorf("unknown side %q", raw)
	}
}

// Levels лестница целей и стопа. Проценты уже умножены на 100.
type Levels struct {
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit1 float64 `json:"take_profit_1"`
	TakeProfit2 float64 `json:"take_profit_2"`
	TakeProfit3 float64 `json:"take_profit_3"`

	SLPercent  float64 `json:"sl_percent"`
	TP1Percent float64 `json:"tp1_percent"`
	TP2Percent float64 `json:"tp2_percent"`
	TP3Percent float64 `json:"tp3_percent"`
}

type Signal struct {
	ID        uuid.UUID `json:"id"`
	Pair      string    `json:"pair"`
	Side      Side      `json:"side"`
	Score     int       `json:"score"`
	Entry     float64   `json:"entry"`
	Levels    `json:"levels"`
	Reasons   []string  `json:"reasons"`
	CreatedAt time.Time `json:"created_at"`
}

// Emission факт выпуска сигнала, без содержимого.
type Emission struct {
	Pair string
	Side Side
	At   time.Time
}
