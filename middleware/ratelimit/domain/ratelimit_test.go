package domain

import (
	"testing"
	"time"
)

func TestWindowRecord_ExpiredIsStrict(t *testing.T) {
	start := time.UnixMilli(0)
	r := WindowRecord{WindowStart: start, Count: 3}

	if r.Expired(start.Add(time.Minute), time.Minute) {
		t.Fatalf("record exactly one window old must still be live")
	}
	if !r.Expired(start.Add(time.Minute+time.Millisecond), time.Minute) {
		t.Fatalf("record older than the window must be expired")
	}
}
