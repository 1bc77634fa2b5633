package service

import (
	"fmt"
	"html"
	"strings"

	"signal_bot/internal/models"
)

// доли позиции, которые закрываются на TP1/TP2/TP3
var tpShares = [3]int{15, 40, 80}

// FormatHTML текст сигнала для Telegram (ParseMode HTML).
func FormatHTML(sig models.Signal) string {
	emoji := "📈"
	if sig.Side == models.SideShort {
		emoji = "📉"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>SIGNAL</b> (%d/100)\n\n", emoji, sig.Score)
	fmt.Fprintf(&b, "<b>Pair:</b> %s\n", html.EscapeString(sig.Pair))
	fmt.Fprintf(&b, "<b>Entry:</b> %s @ <code>%.8f</code>\n\n", sig.Side, sig.Entry)

	tps := [3]struct{ price, pct float64 }{
		{sig.TakeProfit1, sig.TP1Percent},
		{sig.TakeProfit2, sig.TP2Percent},
		{sig.TakeProfit3, sig.TP3Percent},
	}
	for i, tp := range tps {
		fmt.Fprintf(&b, "🎯 <b>TP%d:</b> <code>%.8f</code> (+%.2f%%) [%d%% of position]\n",
			i+1, tp.price, tp.pct, tpShares[i])
	}
	fmt.Fprintf(&b, "\n🛡 <b>SL:</b> <code>%.8f</code> (-%.2f%%)\n\n", sig.StopLoss, sig.SLPercent)

	b.WriteString("<b>💡 Reasons:</b>\n")
	for _, r := range sig.Reasons {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(r))
	}
	fmt.Fprintf(&b, "\n⏰ %s UTC", sig.CreatedAt.UTC().Format("15:04:05"))
	return b.String()
}
