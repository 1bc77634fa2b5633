package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	goredis "github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	// TTL ключа, обычно max(cooldown, window).
	TTL time.Duration
}

// RedisStore хранит снапшот гейта одним JSON-ключом.
type RedisStore struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "redis ping %s", cfg.Addr)
	}
	return &RedisStore{client: client, key: cfg.Key, ttl: cfg.TTL}, nil
}

func (s *RedisStore) Save(ctx context.Context, snap Snapshot) error {
	data, err := sonic.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "marshal cooldown snapshot")
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", s.key)
	}
	return nil
}

// Load пустой снапшот, если ключа нет.
func (s *RedisStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "redis get %s", s.key)
	}
	var snap Snapshot
	if err := sonic.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, errors.Wrap(err, "unmarshal cooldown snapshot")
	}
	return snap, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
