package edge

import (
	"net/http"

	"reservas-edge/internal/clock"
	"reservas-edge/internal/logging"
	"reservas-edge/middleware/ratelimit"
	"reservas-edge/middleware/ratelimit/domain"
	"reservas-edge/middleware/session"

	"go.uber.org/zap"
)

type Options struct {
	Profile   Profile
	RateLimit ratelimit.Options
	// RateLimitDisabled desliga só o rate limit; o gate de sessão continua.
	RateLimitDisabled bool
	Logger            *zap.Logger
}

func Middleware(opts Options) func(next http.Handler) http.Handler {
	log := logging.OrNop(opts.Logger)
	if opts.RateLimit.Logger == nil {
		opts.RateLimit.Logger = log
	}
	if opts.Profile.Name == "" {
		opts.Profile = DefaultProfile
	}
	keyFn := opts.RateLimit.KeyFn
	if keyFn == nil {
		keyFn = ratelimit.DefaultKeyFunc(opts.RateLimit.KeyHeader)
		opts.RateLimit.KeyFn = keyFn
	}
	clk := clock.Or(opts.RateLimit.Clock)
	stats := opts.RateLimit.Stats

	gate := session.NewGate(opts.Profile.Session)
	sessionMW := session.Middleware(session.Options{
		Gate:   gate,
		Logger: log,
		OnDecision: func(r *http.Request, d session.Decision) {
			if stats == nil || d.Action == session.Allow {
				return
			}
			outcome := domain.OutcomeRedirectLogin
			if d.Action == session.RedirectHome {
				outcome = domain.OutcomeRedirectHome
			}
			err := stats.Record(r.Context(), domain.StatsEvent{
				Key:     domain.Key(keyFn(r)),
				Outcome: outcome,
				Method:  r.Method,
				Path:    r.URL.Path,
				At:      clk.Now(),
			})
			if err != nil {
				log.Warn("session stats not recorded", zap.Error(err))
			}
		},
	})

	var rateMW func(http.Handler) http.Handler
	if !opts.RateLimitDisabled {
		rateMW = ratelimit.Middleware(opts.RateLimit)
	}

	return func(next http.Handler) http.Handler {
		pipeline := sessionMW(next)
		if rateMW != nil {
			pipeline = rateMW(pipeline)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if opts.Profile.Excluded(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			pipeline.ServeHTTP(w, r)
		})
	}
}
