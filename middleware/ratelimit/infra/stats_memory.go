package infra

import (
	"context"
	"sort"
	"sync"
	"time"

	"reservas-edge/middleware/ratelimit/domain"
)

// Counters conta decisões por resultado.
type Counters map[domain.Outcome]int64

func (c Counters) clone() Counters {
	out := make(Counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (c Counters) add(o domain.Outcome) {
	if o == "" {
		o = "unknown"
	}
	c[o]++
}

// Summary é o que /internal/stats expõe: cumulativo e o minuto corrente.
type Summary struct {
	Total      Counters `json:"total"`
	LastMinute Counters `json:"last_minute"`
}

func minuteBucket(at time.Time) string { return at.UTC().Format("200601021504") }

// DefaultKeepMinutes é quantos buckets de minuto o store em memória mantém.
const DefaultKeepMinutes = 60

// MemoryStatsStore guarda no processo os mesmos contadores que o
// RedisStatsStore grava: total, por minuto, por rota e (opcional) por cliente.
// Serve para desenvolvimento e para gateways de uma instância só.
type MemoryStatsStore struct {
	mu      sync.Mutex
	total   Counters
	minutes map[string]Counters
	routes  map[string]Counters
	clients map[domain.Key]Counters

	trackKeys   bool
	keepMinutes int
}

type MemoryStatsOption func(*MemoryStatsStore)

func WithTrackKeys(track bool) MemoryStatsOption {
	return func(s *MemoryStatsStore) { s.trackKeys = track }
}

func WithKeepMinutes(n int) MemoryStatsOption {
	return func(s *MemoryStatsStore) {
		if n > 0 {
			s.keepMinutes = n
		}
	}
}

func NewMemoryStatsStore(opts ...MemoryStatsOption) *MemoryStatsStore {
	s := &MemoryStatsStore{
		total:       make(Counters),
		minutes:     make(map[string]Counters),
		routes:      make(map[string]Counters),
		clients:     make(map[domain.Key]Counters),
		keepMinutes: DefaultKeepMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	bucket := minuteBucket(at)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total.add(ev.Outcome)
	counterFor(s.minutes, bucket).add(ev.Outcome)
	if route := ev.Method + " " + ev.Path; route != " " {
		counterFor(s.routes, route).add(ev.Outcome)
	}
	if s.trackKeys && ev.Key != "" {
		counterFor(s.clients, ev.Key).add(ev.Outcome)
	}
	s.pruneMinutesLocked()
	return nil
}

func counterFor[K comparable](m map[K]Counters, k K) Counters {
	c, ok := m[k]
	if !ok {
		c = make(Counters)
		m[k] = c
	}
	return c
}

// o formato do bucket ordena lexicograficamente na ordem do tempo
func (s *MemoryStatsStore) pruneMinutesLocked() {
	if len(s.minutes) <= s.keepMinutes {
		return
	}
	buckets := make([]string, 0, len(s.minutes))
	for b := range s.minutes {
		buckets = append(buckets, b)
	}
	sort.Strings(buckets)
	for _, b := range buckets[:len(buckets)-s.keepMinutes] {
		delete(s.minutes, b)
	}
}

func (s *MemoryStatsStore) Summary(_ context.Context, now time.Time) (Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := Counters{}
	if c, ok := s.minutes[minuteBucket(now)]; ok {
		last = c.clone()
	}
	return Summary{Total: s.total.clone(), LastMinute: last}, nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total.clone()
}

func (s *MemoryStatsStore) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.routes)
}

func (s *MemoryStatsStore) ByKey() map[domain.Key]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.clients)
}

func cloneAll[K comparable](m map[K]Counters) map[K]Counters {
	out := make(map[K]Counters, len(m))
	for k, v := range m {
		out[k] = v.clone()
	}
	return out
}
