package pg

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/subscriptions/service/pg/sql"
)

func TestGroupRecipients(t *testing.T) {
	got := groupRecipients([]*sql.ListSubscriptionsRow{
		{ChatID: 1, Pair: "BTCUSDT"},
		{ChatID: 2, Pair: "btcusdt"},
		{ChatID: 1, Pair: "ETHUSDT"},
	})
	if len(got) != 2 || len(got["BTCUSDT"]) != 2 || got["ETHUSDT"][0] != 1 {
		t.Fatalf("grouped = %v", got)
	}
}

func TestJournalParams(t *testing.T) {
	sig := models.Signal{
		ID:        uuid.New(),
		Pair:      "TONUSDT",
		Side:      models.SideShort,
		Score:     92,
		Entry:     5.5,
		CreatedAt: time.Unix(1_700_000_000, 0).UTC(),
	}
	p, err := journalParams(sig, 42)
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if !p.SignalID.Valid || uuid.UUID(p.SignalID.Bytes) != sig.ID {
		t.Fatalf("signal id = %v", p.SignalID)
	}
	if p.Side != "SHORT" || p.Score != 92 || p.ChatID != 42 || p.Pair != "TONUSDT" {
		t.Fatalf("params = %+v", p)
	}

	var back models.Signal
	if err := sonic.Unmarshal(p.Payload, &back); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if back.ID != sig.ID || back.Side != models.SideShort {
		t.Fatalf("payload signal = %+v", back)
	}
}

func TestEmissionsFromRows(t *testing.T) {
	at := time.Unix(1_700_000_000, 0).UTC()
	got := emissionsFromRows([]*sql.ListSignalsSinceRow{
		{Pair: "btcusdt", Side: "LONG", CreatedAt: pgtype.Timestamptz{Time: at, Valid: true}},
		{Pair: "ETHUSDT", Side: "sideways", CreatedAt: pgtype.Timestamptz{Time: at, Valid: true}},
		{Pair: "TONUSDT", Side: "SHORT"},
	})
	if len(got) != 1 {
		t.Fatalf("emissions = %+v", got)
	}
	if got[0].Pair != "BTCUSDT" || got[0].Side != models.SideLong || !got[0].At.Equal(at) {
		t.Fatalf("emission = %+v", got[0])
	}
}
