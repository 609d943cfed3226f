package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/LeventeLantos/chat-compose/internal/model"
)

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

type outcomeValue struct {
	Text       string       `json:"text"`
	Status     model.Status `json:"status"`
	RecordedAt time.Time    `json:"recordedAt"`
}

func (c *RedisCache) RecordOutcome(ctx context.Context, msg model.Message, at time.Time) error {
	if !msg.Status.Terminal() {
		return fmt.Errorf("outcome must be terminal, got %q", msg.Status)
	}
	if msg.ID == "" {
		return errors.New("outcome requires a message id")
	}

	key := "msg:" + msg.ID
	val := outcomeValue{
		Text:       msg.Text,
		Status:     msg.Status,
		RecordedAt: at.UTC(),
	}

	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
