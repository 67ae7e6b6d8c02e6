package infra

import (
	"context"
	"os"
	"testing"
	"time"

	"reservas-edge/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// Roda apenas com REDIS_ADDR definido (ex: REDIS_ADDR=localhost:6379 go test ./...).
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("redis unavailable: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisStatsStore_RecordAndSummary(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()
	prefix := "test:edge:stats:" + time.Now().Format("150405.000000000")

	s := NewRedisStatsStore(rdb, WithStatsPrefix(prefix), WithStatsTTL(time.Minute), WithStatsTrackKeys(true))
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			_ = rdb.Del(ctx, keys...).Err()
		}
	})

	now := time.Now()
	earlier := now.Add(-2 * time.Minute)
	events := []domain.StatsEvent{
		{Key: "1.2.3.4", Outcome: domain.OutcomeAdmitted, Method: "GET", Path: "/", At: earlier},
		{Key: "1.2.3.4", Outcome: domain.OutcomeAdmitted, Method: "GET", Path: "/", At: now},
		{Key: "1.2.3.4", Outcome: domain.OutcomeRejected, Method: "GET", Path: "/", At: now},
	}
	for _, ev := range events {
		if err := s.Record(ctx, ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	sum, err := s.Summary(ctx, now)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total[domain.OutcomeAdmitted] != 2 || sum.Total[domain.OutcomeRejected] != 1 {
		t.Fatalf("unexpected totals: %v", sum.Total)
	}
	if sum.LastMinute[domain.OutcomeAdmitted] != 1 || sum.LastMinute[domain.OutcomeRejected] != 1 {
		t.Fatalf("unexpected last minute: %v", sum.LastMinute)
	}

	ttl, err := rdb.TTL(ctx, prefix+":key:1.2.3.4").Result()
	if err != nil || ttl <= 0 {
		t.Fatalf("expected per-key counters to expire, ttl=%s err=%v", ttl, err)
	}
}

func TestRedisStatsStore_NilIsNoop(t *testing.T) {
	var s *RedisStatsStore
	if err := s.Record(context.Background(), domain.StatsEvent{}); err != nil {
		t.Fatalf("expected nil store to be a no-op, got %v", err)
	}
}

func TestParseCounters_SkipsGarbage(t *testing.T) {
	got := parseCounters(map[string]string{"admitted": "3", "rejected": "x"})
	if len(got) != 1 || got[domain.OutcomeAdmitted] != 3 {
		t.Fatalf("unexpected counters: %v", got)
	}
}

func TestRedisStatsStore_KeyLayout(t *testing.T) {
	s := NewRedisStatsStore(nil, WithStatsPrefix(":edge:x:"))
	at := time.Date(2026, 10, 17, 21, 5, 0, 0, time.UTC)

	if got := s.minuteKey(at); got != "edge:x:minute:202610172105" {
		t.Fatalf("unexpected minute key %q", got)
	}
	if got := s.clientKey(" 1.2.3.4 "); got != "edge:x:key:1.2.3.4" {
		t.Fatalf("unexpected client key %q", got)
	}
}
