package service

import (
	"context"
	"sort"

	"signal_bot/internal/helper"
	"signal_bot/internal/models"
)

// Source кто на какие пары подписан.
type Source interface {
	// Recipients пара -> chat id получателей.
	Recipients(ctx context.Context) (map[string][]int64, error)
	// Pairs все пары, у которых есть хотя бы один подписчик.
	Pairs(ctx context.Context) ([]string, error)
}

// Journal фиксирует факт доставки сигнала получателю.
type Journal interface {
	Record(ctx context.Context, sig models.Signal, chatID int64) error
}

// Static подписки из конфига: все дефолтные пары всем админам.
type Static struct {
	pairs []string
	chats []int64
}

func NewStatic(pairs []string, chats []int64) *Static {
	norm := make([]string, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		p = helper.NormPair(p)
		if _, ok := seen[p]; ok || p == "" {
			continue
		}
		seen[p] = struct{}{}
		norm = append(norm, p)
	}
	sort.Strings(norm)
	return &Static{pairs: norm, chats: append([]int64(nil), chats...)}
}

// Recipients без админов пары всё равно анализируются, рассылать некому.
func (s *Static) Recipients(context.Context) (map[string][]int64, error) {
	out := make(map[string][]int64, len(s.pairs))
	for _, p := range s.pairs {
		out[p] = append([]int64(nil), s.chats...)
	}
	return out, nil
}

func (s *Static) Pairs(context.Context) ([]string, error) {
	return append([]string(nil), s.pairs...), nil
}

// NopJournal когда БД не настроена.
type NopJournal struct{}

func (NopJournal) Record(context.Context, models.Signal, int64) error { return nil }
