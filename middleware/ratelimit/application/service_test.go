package application

import (
	"testing"
	"time"

	"reservas-edge/middleware/ratelimit/domain"
)

type fakeStore struct {
	rec    domain.WindowRecord
	window time.Duration
	keys   []domain.Key
}

func (s *fakeStore) Hit(key domain.Key, _ time.Time) domain.WindowRecord {
	s.keys = append(s.keys, key)
	return s.rec
}

func (s *fakeStore) Window() time.Duration { return s.window }

func TestService_Decide_AllowsWhenNoStore(t *testing.T) {
	svc := Service{}
	dec := svc.Decide("k", time.Now())
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.RetryAfter != 0 {
		t.Fatalf("expected RetryAfter=0 when allowed, got %s", dec.RetryAfter)
	}
	if dec.Limit != DefaultMaxRequests {
		t.Fatalf("expected default limit, got %d", dec.Limit)
	}
}

func TestService_Decide_ComputesHeadersFromRecord(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	store := &fakeStore{rec: domain.WindowRecord{WindowStart: start, Count: 10}, window: time.Minute}
	svc := Service{Store: store, MaxRequests: 60}

	dec := svc.Decide("1.2.3.4", start.Add(5*time.Second))
	if !dec.Allowed {
		t.Fatalf("expected allowed")
	}
	if dec.Remaining != 50 {
		t.Fatalf("expected remaining=50, got %d", dec.Remaining)
	}
	if !dec.ResetAt.Equal(start.Add(time.Minute)) {
		t.Fatalf("expected reset at window end, got %s", dec.ResetAt)
	}
}

func TestService_Decide_LastAllowedHasZeroRemaining(t *testing.T) {
	store := &fakeStore{rec: domain.WindowRecord{WindowStart: time.Now(), Count: 60}, window: time.Minute}
	dec := Service{Store: store, MaxRequests: 60}.Decide("k", time.Now())
	if !dec.Allowed || dec.Remaining != 0 {
		t.Fatalf("expected allowed with remaining=0, got %+v", dec)
	}
}

func TestService_Decide_BlocksWithRetryAfterDefault(t *testing.T) {
	store := &fakeStore{rec: domain.WindowRecord{WindowStart: time.Now(), Count: 61}, window: time.Minute}
	dec := Service{Store: store, MaxRequests: 60}.Decide("k", time.Now())
	if dec.Allowed {
		t.Fatalf("expected blocked")
	}
	if dec.RetryAfter != 60*time.Second {
		t.Fatalf("expected default RetryAfter=60s, got %s", dec.RetryAfter)
	}
	if dec.Remaining != 0 {
		t.Fatalf("remaining must never go negative, got %d", dec.Remaining)
	}
}

func TestService_Decide_EmptyKeyIsAnonymous(t *testing.T) {
	store := &fakeStore{rec: domain.WindowRecord{WindowStart: time.Now(), Count: 1}, window: time.Minute}
	Service{Store: store}.Decide("", time.Now())
	if len(store.keys) != 1 || store.keys[0] != domain.AnonymousKey {
		t.Fatalf("expected anonymous key, got %v", store.keys)
	}
}
