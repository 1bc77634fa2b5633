package models

import "time"

// Candle OHLCV за один бакет. Bucket — unix-секунды начала бакета.
type Candle struct {
	Bucket int64   `json:"ts"`
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
}

func (c Candle) Start() time.Time { return time.Unix(c.Bucket, 0).UTC() }

// Sample одна точка от коллектора.
type Sample struct {
	Pair   string
	Price  float64
	Volume float64
	TS     time.Time
}

// Quote последняя известная цена и объём пары.
type Quote struct {
	Price  float64
	Volume float64
}

func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
