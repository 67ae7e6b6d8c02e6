package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reservas-edge/internal/config"
	"reservas-edge/internal/logging"
	"reservas-edge/middleware/edge"
	"reservas-edge/middleware/ratelimit"
	"reservas-edge/middleware/ratelimit/domain"
	"reservas-edge/middleware/ratelimit/infra"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.LoadGateway()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("gateway stopped", zap.Error(err))
	}
}

// statsSource é o store de estatísticas que o gateway grava e expõe em /internal/stats.
type statsSource interface {
	domain.StatsStore
	Summary(ctx context.Context, now time.Time) (infra.Summary, error)
}

func run(cfg config.Gateway, log *zap.Logger) error {
	target, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return fmt.Errorf("invalid UPSTREAM_URL: %w", err)
	}
	profile, err := edge.ProfileByName(cfg.Profile)
	if err != nil {
		return err
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error("proxy error", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	var stats statsSource
	if cfg.StatsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.StatsRedisAddr,
			Password: cfg.StatsRedisPassword,
			DB:       cfg.StatsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("redis stats ping: %w", err)
		}

		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.StatsPrefix),
			infra.WithStatsTTL(cfg.StatsTTL),
			infra.WithStatsBucket(cfg.StatsBucket),
			infra.WithStatsTrackKeys(cfg.StatsTrackKeys),
		)
	} else {
		stats = infra.NewMemoryStatsStore(infra.WithTrackKeys(cfg.StatsTrackKeys))
	}

	// um store por processo, criado na subida e injetado no pipeline
	store := infra.NewWindowStore(cfg.RateWindow)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/internal/stats", func(w http.ResponseWriter, req *http.Request) {
		sum, err := stats.Summary(req.Context(), time.Now())
		if err != nil {
			log.Warn("stats read failed", zap.Error(err))
			http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sum)
	})

	r.Group(func(g chi.Router) {
		g.Use(edge.Middleware(edge.Options{
			Profile:           profile,
			RateLimitDisabled: !cfg.RateEnabled,
			RateLimit: ratelimit.Options{
				Store:       store,
				Stats:       stats,
				KeyHeader:   cfg.RateKeyHeader,
				MaxRequests: cfg.RateMaxRequests,
				RetryAfter:  cfg.RetryAfter,
			},
			Logger: log,
		}))
		// só o que passou pela borda disputa vaga no upstream
		g.Use(ratelimit.ShedMiddleware(ratelimit.ShedOptions{
			Max:        cfg.UpstreamMaxInFlight,
			MaxWait:    cfg.UpstreamMaxWait,
			RetryAfter: cfg.UpstreamRetryAfter,
			Stats:      stats,
			KeyFn:      ratelimit.DefaultKeyFunc(cfg.RateKeyHeader),
			Logger:     log,
		}))
		g.Handle("/*", proxy)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("gateway listening",
		zap.String("addr", cfg.ListenAddr),
		zap.String("upstream", target.String()),
		zap.String("profile", profile.Name),
	)
	log.Info("rate limit",
		zap.Bool("enabled", cfg.RateEnabled),
		zap.Int("max_requests", cfg.RateMaxRequests),
		zap.Duration("window", cfg.RateWindow),
		zap.Duration("retry_after", cfg.RetryAfter),
		zap.String("key_header", cfg.RateKeyHeader),
	)
	log.Info("edge stats",
		zap.Bool("redis", cfg.StatsEnabled),
		zap.String("redis_addr", cfg.StatsRedisAddr),
		zap.String("bucket", cfg.StatsBucket),
		zap.Duration("ttl", cfg.StatsTTL),
		zap.Bool("track_keys", cfg.StatsTrackKeys),
	)
	log.Info("upstream shedding",
		zap.Int("max_in_flight", cfg.UpstreamMaxInFlight),
		zap.Duration("max_wait", cfg.UpstreamMaxWait),
		zap.Duration("retry_after", cfg.UpstreamRetryAfter),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
