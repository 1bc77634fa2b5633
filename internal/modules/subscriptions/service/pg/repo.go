package pg

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/subscriptions/service/pg/sql"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// Repo подписки и журнал сигналов в Postgres.
type Repo struct {
	tx  db.TxManager
	sql *sql.Queries
}

func New(tx db.TxManager) *Repo {
	return &Repo{
		tx:  tx,
		sql: sql.New(),
	}
}

func (r *Repo) Recipients(ctx context.Context) (map[string][]int64, error) {
	rows, err := r.sql.ListSubscriptions(ctx, r.tx.Conn())
	if err != nil {
		return nil, errors.Wrap(err, "Repo.Recipients")
	}
	return groupRecipients(rows), nil
}

func groupRecipients(rows []*sql.ListSubscriptionsRow) map[string][]int64 {
	out := make(map[string][]int64)
	for _, row := range rows {
		pair := helper.NormPair(row.Pair)
		out[pair] = append(out[pair], row.ChatID)
	}
	return out
}

func (r *Repo) Pairs(ctx context.Context) ([]string, error) {
	pairs, err := r.sql.ListTrackedPairs(ctx, r.tx.Conn())
	if err != nil {
		return nil, errors.Wrap(err, "Repo.Pairs")
	}
	return pairs, nil
}

// Record одна строка журнала на получателя, полный сигнал лежит в payload.
func (r *Repo) Record(ctx context.Context, sig models.Signal, chatID int64) error {
	params, err := journalParams(sig, chatID)
	if err != nil {
		return errors.Wrap(err, "Repo.Record")
	}
	return r.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		return r.sql.InsertJournal(ctxTx, tx, params)
	})
}

func journalParams(sig models.Signal, chatID int64) (*sql.InsertJournalParams, error) {
	payload, err := sonic.Marshal(sig)
	if err != nil {
		return nil, errors.Wrap(err, "marshal signal")
	}
	return &sql.InsertJournalParams{
		SignalID: pgtype.UUID{Bytes: sig.ID, Valid: true},
		ChatID:   chatID,
		Pair:     sig.Pair,
		Side:     sig.Side.String(),
		Entry:    sig.Entry,
		Score:    int32(sig.Score),
		Payload:  payload,
	}, nil
}

// SignalsSince выпущенные сигналы начиная с since, по одному на signal_id.
func (r *Repo) SignalsSince(ctx context.Context, since time.Time) ([]models.Emission, error) {
	rows, err := r.sql.ListSignalsSince(ctx, r.tx.Conn(), pgtype.Timestamptz{Time: since, Valid: true})
	if err != nil {
		return nil, errors.Wrap(err, "Repo.SignalsSince")
	}
	return emissionsFromRows(rows), nil
}

func emissionsFromRows(rows []*sql.ListSignalsSinceRow) []models.Emission {
	out := make([]models.Emission, 0, len(rows))
	for _, row := range rows {
		side, err := models.ParseSide(row.Side)
		if err != nil || !row.CreatedAt.Valid {
			logger.Warn("journal: skip row %s %q", row.Pair, row.Side)
			continue
		}
		out = append(out, models.Emission{
			Pair: helper.NormPair(row.Pair),
			Side: side,
			At:   row.CreatedAt.Time,
		})
	}
	return out
}
