package infra

import (
	"context"
	"testing"
	"time"

	"reservas-edge/middleware/ratelimit/domain"
)

func TestMemoryStatsStore_CountsByOutcomeRouteAndClient(t *testing.T) {
	s := NewMemoryStatsStore(WithTrackKeys(true))
	ctx := context.Background()

	_ = s.Record(ctx, domain.StatsEvent{Key: "a", Outcome: domain.OutcomeAdmitted, Method: "GET", Path: "/reservas"})
	_ = s.Record(ctx, domain.StatsEvent{Key: "a", Outcome: domain.OutcomeRejected, Method: "GET", Path: "/reservas"})
	_ = s.Record(ctx, domain.StatsEvent{Key: "b", Outcome: domain.OutcomeRedirectLogin, Method: "GET", Path: "/mesas"})

	total := s.Total()
	if total[domain.OutcomeAdmitted] != 1 || total[domain.OutcomeRejected] != 1 || total[domain.OutcomeRedirectLogin] != 1 {
		t.Fatalf("unexpected totals: %v", total)
	}
	if got := s.ByRoute()["GET /reservas"][domain.OutcomeRejected]; got != 1 {
		t.Fatalf("expected 1 rejected for route, got %d", got)
	}
	if got := s.ByKey()["a"][domain.OutcomeAdmitted]; got != 1 {
		t.Fatalf("expected 1 admitted for client a, got %d", got)
	}
}

func TestMemoryStatsStore_ClientsNotTrackedByDefault(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{Key: "a", Outcome: domain.OutcomeAdmitted})
	if len(s.ByKey()) != 0 {
		t.Fatalf("expected no per-client counters")
	}
}

func TestMemoryStatsStore_SummaryLastMinute(t *testing.T) {
	s := NewMemoryStatsStore()
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 10, 0, time.UTC)

	_ = s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeRejected, At: t0})
	_ = s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeRejected, At: t0.Add(time.Minute)})
	_ = s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeShed, At: t0.Add(time.Minute + 5*time.Second)})

	sum, err := s.Summary(ctx, t0.Add(time.Minute+30*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Total[domain.OutcomeRejected] != 2 {
		t.Fatalf("expected 2 rejected in total, got %v", sum.Total)
	}
	if sum.LastMinute[domain.OutcomeRejected] != 1 || sum.LastMinute[domain.OutcomeShed] != 1 {
		t.Fatalf("unexpected last minute: %v", sum.LastMinute)
	}

	// minuto sem eventos volta vazio, não nil
	sum, _ = s.Summary(ctx, t0.Add(10*time.Minute))
	if sum.LastMinute == nil || len(sum.LastMinute) != 0 {
		t.Fatalf("expected empty last minute, got %v", sum.LastMinute)
	}
}

func TestMemoryStatsStore_KeepsOnlyRecentMinutes(t *testing.T) {
	s := NewMemoryStatsStore(WithKeepMinutes(2))
	ctx := context.Background()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_ = s.Record(ctx, domain.StatsEvent{Outcome: domain.OutcomeAdmitted, At: t0.Add(time.Duration(i) * time.Minute)})
	}

	if n := len(s.minutes); n != 2 {
		t.Fatalf("expected 2 minute buckets, got %d", n)
	}
	if sum, _ := s.Summary(ctx, t0); len(sum.LastMinute) != 0 {
		t.Fatalf("oldest minute should have been pruned, got %v", sum.LastMinute)
	}
	if s.Total()[domain.OutcomeAdmitted] != 5 {
		t.Fatalf("pruning must not touch totals")
	}
}

func TestMemoryStatsStore_SnapshotsAreCopies(t *testing.T) {
	s := NewMemoryStatsStore()
	_ = s.Record(context.Background(), domain.StatsEvent{Outcome: domain.OutcomeAdmitted})

	snap := s.Total()
	snap[domain.OutcomeAdmitted] = 99
	if s.Total()[domain.OutcomeAdmitted] != 1 {
		t.Fatalf("mutating a snapshot must not change the store")
	}
}
