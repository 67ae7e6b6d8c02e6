package api

import (
	"testing"
	"time"
)

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()
	if got := p.Delay(1); got != 2*time.Second {
		t.Fatalf("expected 2s, got %s", got)
	}
	if got := p.Delay(2); got != 4*time.Second {
		t.Fatalf("expected 4s, got %s", got)
	}
}

func TestRetryPolicy_ShouldRetry(t *testing.T) {
	p := DefaultRetryPolicy()
	for count, want := range map[int]bool{0: true, 1: true, 2: false, 3: false} {
		if got := p.ShouldRetry(&Request{RetryCount: count}); got != want {
			t.Fatalf("retryCount=%d: expected %v, got %v", count, want, got)
		}
	}
}
