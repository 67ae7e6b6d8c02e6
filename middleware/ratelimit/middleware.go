package ratelimit

import (
	"io"
	"net/http"
	"strings"
	"time"

	"reservas-edge/internal/clock"
	"reservas-edge/internal/logging"
	"reservas-edge/middleware/ratelimit/application"
	"reservas-edge/middleware/ratelimit/domain"
	"reservas-edge/middleware/ratelimit/infra"

	"go.uber.org/zap"
)

const (
	HeaderLimit     = "X-RateLimit-Limit"
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

type KeyFunc func(r *http.Request) string

type Options struct {
	// Store é injetado por quem monta o gateway; nil cria um WindowStore novo.
	Store       domain.WindowStore
	Stats       domain.StatsStore
	KeyFn       KeyFunc
	KeyHeader   string
	MaxRequests int
	RetryAfter  time.Duration
	Clock       clock.Clock
	Logger      *zap.Logger
}

// DefaultKeyFunc identifica o cliente pelo primeiro IP do X-Forwarded-For, depois
// X-Real-IP e, sem nenhum dos dois, devolve "anonymous". Se keyHeader for
// informado e estiver presente, ele tem prioridade.
//
// Atenção: todos os clientes sem esses headers caem no mesmo contador.
func DefaultKeyFunc(keyHeader string) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		// pega o primeiro IP do X-Forwarded-For (cliente original)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}

		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
		return string(domain.AnonymousKey)
	}
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Store == nil {
		opts.Store = infra.NewWindowStore(infra.DefaultWindow)
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader)
	}
	clk := clock.Or(opts.Clock)
	log := logging.OrNop(opts.Logger)

	svc := application.Service{
		Store:       opts.Store,
		MaxRequests: opts.MaxRequests,
		RetryAfter:  opts.RetryAfter,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := domain.Key(opts.KeyFn(r))
			now := clk.Now()

			dec := svc.Decide(key, now)

			h := w.Header()
			h.Set(HeaderLimit, formatInt(dec.Limit))
			h.Set(HeaderRemaining, formatInt(dec.Remaining))
			h.Set(HeaderReset, formatEpochMillis(dec.ResetAt))

			outcome := domain.OutcomeAdmitted
			if !dec.Allowed {
				outcome = domain.OutcomeRejected
			}
			if opts.Stats != nil {
				err := opts.Stats.Record(r.Context(), domain.StatsEvent{
					Key:     key,
					Outcome: outcome,
					Method:  r.Method,
					Path:    r.URL.Path,
					At:      now,
				})
				if err != nil {
					log.Warn("rate limit stats not recorded", zap.Error(err))
				}
			}

			if !dec.Allowed {
				log.Info("rate limit exceeded",
					zap.String("key", string(key)),
					zap.String("path", r.URL.Path),
					zap.Time("reset_at", dec.ResetAt),
				)
				h.Set("Retry-After", formatSeconds(dec.RetryAfter))
				h.Set("Content-Type", "text/plain")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = io.WriteString(w, http.StatusText(http.StatusTooManyRequests))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
