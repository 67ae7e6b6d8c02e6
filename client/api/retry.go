package api

import (
	"context"
	"time"

	"reservas-edge/internal/clock"
)

const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = time.Second
)

// RetryPolicy limita novas tentativas: no máximo MaxRetries além da primeira.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

func (p RetryPolicy) ShouldRetry(req *Request) bool {
	return req.RetryCount < p.MaxRetries
}

// Delay é a espera antes da tentativa extra número retry (1, 2, ...): 2^retry * BaseDelay.
func (p RetryPolicy) Delay(retry int) time.Duration {
	if retry < 0 {
		retry = 0
	}
	return time.Duration(1<<retry) * p.BaseDelay
}

func sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clk.After(d):
		return nil
	}
}
