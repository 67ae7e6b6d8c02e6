package ratelimit

import (
	"errors"
	"io"
	"net/http"
	"time"

	"reservas-edge/internal/clock"
	"reservas-edge/internal/logging"
	"reservas-edge/middleware/ratelimit/application"
	"reservas-edge/middleware/ratelimit/domain"
	"reservas-edge/middleware/ratelimit/infra"

	"go.uber.org/zap"
)

// DefaultShedRetryAfter é o Retry-After sugerido quando o upstream está cheio.
const DefaultShedRetryAfter = 5 * time.Second

type ShedOptions struct {
	// Max <= 0 desliga o limite.
	Max     int
	MaxWait time.Duration
	// Pool substitui o semáforo padrão (testes); Max continua ligando o limite.
	Pool       domain.SlotPool
	RetryAfter time.Duration

	Stats  domain.StatsStore
	KeyFn  KeyFunc
	Clock  clock.Clock
	Logger *zap.Logger
}

// ShedMiddleware protege o upstream: requisições que já passaram pela borda
// esperam uma vaga e, sem vaga em MaxWait, recebem 503 com Retry-After.
// Se o cliente desistir enquanto espera, nada é escrito.
func ShedMiddleware(opts ShedOptions) func(next http.Handler) http.Handler {
	if opts.Max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.Pool == nil {
		opts.Pool = infra.NewChanPool(opts.Max)
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = DefaultShedRetryAfter
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc("")
	}
	clk := clock.Or(opts.Clock)
	log := logging.OrNop(opts.Logger)

	svc := application.ShedService{Pool: opts.Pool, MaxWait: opts.MaxWait}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Admit(r.Context())
			if err == nil {
				defer release()
				next.ServeHTTP(w, r)
				return
			}

			if !errors.Is(err, domain.ErrNoSlot) {
				log.Debug("client left while waiting for upstream slot", zap.String("path", r.URL.Path))
				return
			}

			key := domain.Key(opts.KeyFn(r))
			log.Warn("upstream full, shedding request",
				zap.String("key", string(key)),
				zap.String("path", r.URL.Path),
				zap.Int("in_use", opts.Pool.InUse()),
				zap.Int("max", opts.Pool.Capacity()),
			)
			if opts.Stats != nil {
				ev := domain.StatsEvent{Key: key, Outcome: domain.OutcomeShed, Method: r.Method, Path: r.URL.Path, At: clk.Now()}
				if serr := opts.Stats.Record(r.Context(), ev); serr != nil {
					log.Warn("shed stats not recorded", zap.Error(serr))
				}
			}

			h := w.Header()
			h.Set("Retry-After", formatSeconds(opts.RetryAfter))
			h.Set("Content-Type", "text/plain")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, http.StatusText(http.StatusServiceUnavailable))
		})
	}
}
