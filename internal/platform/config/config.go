package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultVeriaEndpoint is the screening endpoint used when VERIA_API_URL is unset.
const DefaultVeriaEndpoint = "https://api.veria.cc/v1/screen"

// Config groups everything the binaries read from the environment.
type Config struct {
	Veria     Veria
	Server    Server
	Redis     RedisConfig
	RateLimit RateLimit
	Log       Log
}

// Veria captures the screening API credential and endpoint.
type Veria struct {
	APIKey   string
	Endpoint string
	// Timeout bounds a whole screening call. Zero keeps the HTTP client default.
	Timeout time.Duration
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	// TrustProxyHeaders makes client IPs come from X-Forwarded-For/X-Real-IP.
	TrustProxyHeaders bool
}

// RedisConfig configures the optional Redis connection. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimit bounds proxy requests per client IP. Requests == 0 disables limiting.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Log selects the slog level and handler format.
type Log struct {
	Level  string
	Format string
}

// FromEnv builds a Config from environment variables so main stays lean.
// Unset variables take defaults; malformed numbers and durations are errors.
func FromEnv() (Config, error) {
	cfg, err := ClientFromEnv()
	if err != nil {
		return Config{}, err
	}

	cfg.Server = Server{
		Addr:            envOr("VERIA_ADDR", ":8080"),
		ShutdownTimeout: 10 * time.Second,
	}
	cfg.Redis = RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	cfg.RateLimit = RateLimit{
		Requests: 60,
		Window:   time.Minute,
	}

	if cfg.Server.TrustProxyHeaders, err = boolEnv("TRUST_PROXY_HEADERS", false); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.Requests, err = intEnv("RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.Window, err = durationEnv("RATE_LIMIT_WINDOW", cfg.RateLimit.Window); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.Requests < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return cfg, nil
}

// ClientFromEnv reads only the Veria and Log sections, the ones the screen CLI
// uses. Server, Redis and RateLimit variables are not read.
func ClientFromEnv() (Config, error) {
	cfg := Config{
		Veria: Veria{
			APIKey:   os.Getenv("VERIA_API_KEY"),
			Endpoint: envOr("VERIA_API_URL", DefaultVeriaEndpoint),
		},
		Log: Log{
			Level:  strings.ToLower(envOr("LOG_LEVEL", "info")),
			Format: strings.ToLower(envOr("LOG_FORMAT", "text")),
		},
	}

	var err error
	if cfg.Veria.Timeout, err = durationEnv("VERIA_TIMEOUT", 0); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return b, nil
}
