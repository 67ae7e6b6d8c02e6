// Package config lê a configuração dos binários a partir de variáveis de
// ambiente. Um arquivo .env (se existir) é carregado antes, sem sobrescrever
// variáveis já definidas no processo.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Gateway struct {
	ListenAddr  string
	UpstreamURL string
	Profile     string

	RateEnabled     bool
	RateMaxRequests int
	RateWindow      time.Duration
	RetryAfter      time.Duration
	RateKeyHeader   string

	UpstreamMaxInFlight int
	UpstreamMaxWait     time.Duration
	UpstreamRetryAfter  time.Duration

	StatsEnabled       bool
	StatsRedisAddr     string
	StatsRedisPassword string
	StatsRedisDB       int
	StatsPrefix        string
	StatsTTL           time.Duration
	StatsBucket        string
	StatsTrackKeys     bool

	LogLevel  string
	LogFormat string
}

type Client struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration

	PaceRPS   float64
	PaceBurst int

	FirebaseAPIKey       string
	FirebaseRefreshToken string

	TokenCacheRedisAddr string
	TokenCachePrefix    string
	TokenCacheTTL       time.Duration

	LogLevel  string
	LogFormat string
}

// LoadDotEnv carrega os arquivos informados (ou ".env"). Arquivo ausente não é erro.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

func LoadGateway() (Gateway, error) {
	cfg := Gateway{}
	cfg.ListenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.UpstreamURL = strings.TrimSpace(getenvDefault("UPSTREAM_URL", ""))
	cfg.Profile = strings.ToLower(getenvDefault("GATE_PROFILE", "default"))

	cfg.RateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.RateMaxRequests = getenvIntDefault("RATE_MAX_REQUESTS", 60)
	cfg.RateWindow = getenvDurationDefault("RATE_WINDOW", 60*time.Second)
	cfg.RetryAfter = getenvDurationDefault("RETRY_AFTER", 60*time.Second)
	cfg.RateKeyHeader = getenvDefault("RATE_KEY_HEADER", "")

	cfg.UpstreamMaxInFlight = getenvIntDefault("UPSTREAM_MAX_INFLIGHT", 100)
	cfg.UpstreamMaxWait = getenvDurationDefault("UPSTREAM_MAX_WAIT", 2*time.Second)
	cfg.UpstreamRetryAfter = getenvDurationDefault("UPSTREAM_RETRY_AFTER", 5*time.Second)

	cfg.StatsEnabled = getenvBoolDefault("RATE_STATS_ENABLED", false)
	cfg.StatsRedisAddr = getenvDefault("RATE_STATS_REDIS_ADDR", "")
	cfg.StatsRedisPassword = getenvDefault("RATE_STATS_REDIS_PASSWORD", "")
	cfg.StatsRedisDB = getenvIntDefault("RATE_STATS_REDIS_DB", 0)
	cfg.StatsPrefix = getenvDefault("RATE_STATS_PREFIX", "edge:stats")
	cfg.StatsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.StatsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")
	cfg.StatsTrackKeys = getenvBoolDefault("RATE_STATS_TRACK_KEYS", false)

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	if cfg.UpstreamURL == "" {
		return Gateway{}, errors.New("UPSTREAM_URL is required")
	}
	if cfg.Profile != "default" && cfg.Profile != "firebase" {
		return Gateway{}, errors.New("GATE_PROFILE must be default or firebase")
	}
	if cfg.RateMaxRequests <= 0 {
		return Gateway{}, errors.New("RATE_MAX_REQUESTS must be > 0")
	}
	if cfg.RateWindow <= 0 {
		return Gateway{}, errors.New("RATE_WINDOW must be > 0")
	}
	if cfg.UpstreamMaxInFlight < 0 {
		return Gateway{}, errors.New("UPSTREAM_MAX_INFLIGHT must be >= 0")
	}
	if cfg.StatsEnabled && strings.TrimSpace(cfg.StatsRedisAddr) == "" {
		return Gateway{}, errors.New("RATE_STATS_REDIS_ADDR is required when RATE_STATS_ENABLED=true")
	}
	return cfg, nil
}

func LoadClient() (Client, error) {
	cfg := Client{}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(getenvDefault("API_BASE_URL", "")), "/")
	cfg.Timeout = getenvDurationDefault("API_TIMEOUT", 15*time.Second)
	cfg.MaxRetries = getenvIntDefault("API_MAX_RETRIES", 2)
	cfg.RetryBase = getenvDurationDefault("API_RETRY_BASE", time.Second)

	cfg.PaceRPS = getenvFloatDefault("API_PACE_RPS", 0)
	cfg.PaceBurst = getenvIntDefault("API_PACE_BURST", 1)

	cfg.FirebaseAPIKey = getenvDefault("FIREBASE_API_KEY", "")
	cfg.FirebaseRefreshToken = getenvDefault("FIREBASE_REFRESH_TOKEN", "")

	cfg.TokenCacheRedisAddr = getenvDefault("TOKEN_CACHE_REDIS_ADDR", "")
	cfg.TokenCachePrefix = getenvDefault("TOKEN_CACHE_PREFIX", "reservas:token")
	cfg.TokenCacheTTL = getenvDurationDefault("TOKEN_CACHE_TTL", time.Hour)

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "warn")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "console")

	if cfg.BaseURL == "" {
		return Client{}, errors.New("API_BASE_URL is required")
	}
	if cfg.MaxRetries < 0 {
		return Client{}, errors.New("API_MAX_RETRIES must be >= 0")
	}
	if cfg.Timeout <= 0 {
		return Client{}, errors.New("API_TIMEOUT must be > 0")
	}
	if cfg.PaceRPS < 0 {
		return Client{}, errors.New("API_PACE_RPS must be >= 0")
	}
	if cfg.PaceRPS > 0 && cfg.PaceBurst <= 0 {
		return Client{}, errors.New("API_PACE_BURST must be > 0 when API_PACE_RPS is set")
	}
	return cfg, nil
}
