package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"veria/internal/ratelimit/metrics"
	"veria/internal/ratelimit/models"
	"veria/pkg/platform/httputil"
	"veria/pkg/platform/middleware/metadata"
)

// Store counts requests per key within a window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Middleware limits proxy requests per client IP.
type Middleware struct {
	primary  Store
	fallback Store
	breaker  *CircuitBreaker
	limit    int
	window   time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Middleware)

// WithFallback counts against fallback while the primary store is failing.
func WithFallback(fallback Store, breaker *CircuitBreaker) Option {
	return func(m *Middleware) {
		m.fallback = fallback
		m.breaker = breaker
	}
}

// WithMetrics records rejections and degraded checks.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mt
	}
}

// New builds the middleware. A limit of zero disables rate limiting.
func New(primary Store, limit int, window time.Duration, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary: primary,
		limit:   limit,
		window:  window,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.fallback != nil && m.breaker == nil {
		m.breaker = NewCircuitBreaker(0, 0)
	}
	if m.disabled() {
		logger.Info("rate limiting disabled")
	}
	return m
}

func (m *Middleware) disabled() bool {
	return m.limit <= 0 || m.primary == nil
}

// RateLimit rejects requests over the per-IP limit with 429. Store errors
// fail open unless a fallback store takes over.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.disabled() {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		ip := metadata.GetClientIP(ctx)

		result, degraded, err := m.check(ctx, models.NewIPKey(ip))
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to check IP rate limit", "error", err, "ip", ip)
			next.ServeHTTP(w, r)
			return
		}

		addRateLimitHeaders(w, result)
		if degraded {
			w.Header().Set("X-RateLimit-Status", "degraded")
		}

		if !result.Allowed {
			m.metrics.IncrementRejected()
			writeRateLimitExceeded(w, result)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) check(ctx context.Context, key string) (*models.Result, bool, error) {
	result, err := m.primary.Allow(ctx, key, m.limit, m.window)
	if m.fallback == nil {
		return result, false, err
	}

	if err == nil {
		wasOpen := m.breaker.IsOpen()
		if m.breaker.RecordSuccess() && wasOpen {
			m.logger.InfoContext(ctx, "rate limit store recovered")
		}
		return result, false, nil
	}

	wasOpen := m.breaker.IsOpen()
	if !m.breaker.RecordFailure() {
		return nil, false, err
	}
	if !wasOpen {
		m.logger.WarnContext(ctx, "rate limit store failing, using in-memory fallback", "error", err)
	}
	m.metrics.IncrementDegraded()
	result, err = m.fallback.Allow(ctx, key, m.limit, m.window)
	return result, true, err
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many screening requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
