package service

import (
	"math"

	"signal_bot/internal/models"
)

const (
	stopATRMultiple = 2.0
	tp1Multiple     = 1.5
	tp2Multiple     = 3.0
	tp3Multiple     = 5.0
)

// CalcTPSL стоп на 2*ATR, цели 1.5/3/5 дистанции стопа от входа.
func CalcTPSL(entry float64, side models.Side, atr float64) models.Levels {
	sl := atr * stopATRMultiple
	d1, d2, d3 := sl*tp1Multiple, sl*tp2Multiple, sl*tp3Multiple

	var lv models.Levels
	switch side {
	case models.SideLong:
		lv.StopLoss = entry - sl
		lv.TakeProfit1 = entry + d1
		lv.TakeProfit2 = entry + d2
		lv.TakeProfit3 = entry + d3
	case models.SideShort:
		lv.StopLoss = entry + sl
		lv.TakeProfit1 = entry - d1
		lv.TakeProfit2 = entry - d2
		lv.TakeProfit3 = entry - d3
	}

	pct := func(level float64) float64 {
		if entry == 0 {
			return 0
		}
		return math.Abs((level - entry) / entry * 100)
	}
	lv.SLPercent = pct(lv.StopLoss)
	lv.TP1Percent = pct(lv.TakeProfit1)
	lv.TP2Percent = pct(lv.TakeProfit2)
	lv.TP3Percent = pct(lv.TakeProfit3)
	return lv
}
