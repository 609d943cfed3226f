package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/LeventeLantos/chat-compose/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, NewRedisCache(rdb, ttl)
}

func TestRedisCache_RecordOutcome_Success(t *testing.T) {
	t.Parallel()

	mr, cache := newTestCache(t, 10*time.Second)

	msg := model.Message{ID: "abc", Text: "hello", Status: model.Sent}
	at := time.Date(2026, 2, 2, 18, 0, 0, 0, time.UTC)

	if err := cache.RecordOutcome(context.Background(), msg, at); err != nil {
		t.Fatalf("RecordOutcome() error: %v", err)
	}

	key := "msg:abc"
	if !mr.Exists(key) {
		t.Fatalf("expected key %q to exist", key)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("expected TTL to be set, got %v", ttl)
	}

	raw, err := mr.Get(key)
	if err != nil {
		t.Fatalf("failed to get key %q: %v", key, err)
	}

	var got outcomeValue
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("failed to unmarshal value: %v", err)
	}
	if got.Text != "hello" || got.Status != model.Sent {
		t.Fatalf("unexpected value: %+v", got)
	}
	if !got.RecordedAt.Equal(at) {
		t.Fatalf("expected RecordedAt %v, got %v", at, got.RecordedAt)
	}
}

func TestRedisCache_RecordOutcome_RejectsNonTerminal(t *testing.T) {
	t.Parallel()

	mr, cache := newTestCache(t, time.Minute)

	for _, s := range []model.Status{model.Draft, model.Pending} {
		err := cache.RecordOutcome(context.Background(), model.Message{ID: "x", Status: s}, time.Now())
		if err == nil {
			t.Fatalf("expected error for status %q", s)
		}
	}
	if mr.Exists("msg:x") {
		t.Fatalf("non-terminal outcome must not be written")
	}
}

func TestRedisCache_RecordOutcome_RequiresID(t *testing.T) {
	t.Parallel()

	_, cache := newTestCache(t, time.Minute)

	err := cache.RecordOutcome(context.Background(), model.Message{Text: "x", Status: model.Failed}, time.Now())
	if err == nil {
		t.Fatalf("expected error for missing id")
	}
}

func TestRedisCache_RecordOutcome_ContextCanceled(t *testing.T) {
	t.Parallel()

	_, cache := newTestCache(t, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cache.RecordOutcome(ctx, model.Message{ID: "1", Status: model.Sent}, time.Now())
	if err == nil {
		t.Fatalf("expected error due to canceled context, got nil")
	}
}
