package application

import (
	"time"

	"reservas-edge/middleware/ratelimit/domain"
)

const (
	DefaultMaxRequests = 60
	DefaultRetryAfter  = 60 * time.Second
)

// Service concentra a regra de aplicação do rate limit de janela fixa.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store       domain.WindowStore
	MaxRequests int
	RetryAfter  time.Duration
}

func (s Service) Decide(key domain.Key, now time.Time) domain.Decision {
	if s.MaxRequests <= 0 {
		s.MaxRequests = DefaultMaxRequests
	}
	if s.RetryAfter <= 0 {
		s.RetryAfter = DefaultRetryAfter
	}
	if s.Store == nil {
		return domain.Decision{Allowed: true, Limit: s.MaxRequests, Remaining: s.MaxRequests, ResetAt: now}
	}
	if key == "" {
		key = domain.AnonymousKey
	}

	rec := s.Store.Hit(key, now)
	dec := domain.Decision{
		Allowed:   rec.Count <= s.MaxRequests,
		Limit:     s.MaxRequests,
		Remaining: max(0, s.MaxRequests-rec.Count),
		ResetAt:   rec.WindowStart.Add(s.Store.Window()),
	}
	if !dec.Allowed {
		dec.RetryAfter = s.RetryAfter
	}
	return dec
}
