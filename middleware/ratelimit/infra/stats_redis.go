package infra

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reservas-edge/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava contadores de decisões da borda em hashes do Redis.
//
// Layout (prefixo padrão "edge:stats"):
//   - <prefix>:total              campo = outcome
//   - <prefix>:minute:YYYYMMDDhhmm campo = outcome (expira após ttl)
//   - <prefix>:route              campo = "METHOD /path:outcome"
//   - <prefix>:key:<cliente>      campo = outcome (só com trackKeys, expira após ttl)
//
// São só estatísticas: os contadores do rate limit continuam no processo.
type RedisStatsStore struct {
	rdb redis.Cmdable

	prefix string
	// ttl aplica apenas em chaves de série temporal / por key.
	// total é cumulativo e não expira.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"

	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		if p := strings.Trim(prefix, ": "); p != "" {
			s.prefix = p
		}
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.Cmdable, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "edge:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) totalKey() string { return s.prefix + ":total" }
func (s *RedisStatsStore) routeKey() string { return s.prefix + ":route" }

func (s *RedisStatsStore) minuteKey(at time.Time) string {
	return s.prefix + ":minute:" + minuteBucket(at)
}

func (s *RedisStatsStore) clientKey(k domain.Key) string {
	return s.prefix + ":key:" + strings.TrimSpace(string(k))
}

// incrWithTTL incrementa um hash de série temporal e renova a expiração.
func (s *RedisStatsStore) incrWithTTL(ctx context.Context, pipe redis.Pipeliner, key, field string) {
	pipe.HIncrBy(ctx, key, field, 1)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	field := string(ev.Outcome)
	if field == "" {
		field = "unknown"
	}

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, s.totalKey(), field, 1)
	if s.bucket == "minute" {
		s.incrWithTTL(ctx, pipe, s.minuteKey(at), field)
	}
	if route := strings.TrimSpace(ev.Method + " " + ev.Path); route != "" {
		pipe.HIncrBy(ctx, s.routeKey(), route+":"+field, 1)
	}
	if s.trackKeys && strings.TrimSpace(string(ev.Key)) != "" {
		s.incrWithTTL(ctx, pipe, s.clientKey(ev.Key), field)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record edge stats: %w", err)
	}
	return nil
}

// Summary lê o total cumulativo e o bucket do minuto de now numa ida só ao Redis.
// Com bucket "none" LastMinute volta vazio.
func (s *RedisStatsStore) Summary(ctx context.Context, now time.Time) (Summary, error) {
	pipe := s.rdb.Pipeline()
	total := pipe.HGetAll(ctx, s.totalKey())
	minute := pipe.HGetAll(ctx, s.minuteKey(now))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Summary{}, fmt.Errorf("read edge stats: %w", err)
	}
	return Summary{Total: parseCounters(total.Val()), LastMinute: parseCounters(minute.Val())}, nil
}

// campos não numéricos são ignorados
func parseCounters(raw map[string]string) Counters {
	out := make(Counters, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[domain.Outcome(field)] = n
	}
	return out
}
