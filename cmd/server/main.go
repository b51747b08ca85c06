package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"veria/internal/platform/config"
	"veria/internal/platform/httpserver"
	"veria/internal/platform/logger"
	"veria/internal/platform/redis"
	rlmetrics "veria/internal/ratelimit/metrics"
	rlmiddleware "veria/internal/ratelimit/middleware"
	rlstore "veria/internal/ratelimit/store"
	"veria/internal/screening/client"
	"veria/internal/screening/handler"
	"veria/internal/screening/metrics"
	httptransport "veria/internal/transport/http"
)

// main runs the compliance proxy: browsers post an address to /api/screen and
// the proxy calls the screening API with the server-held key.
func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Veria.APIKey == "" {
		log.Warn("VERIA_API_KEY is not set; upstream calls will be rejected")
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	checks := map[string]httptransport.HealthChecker{}
	if redisClient != nil {
		defer redisClient.Close()
		checks["redis"] = redisClient
	}

	limiter, memStore := newRateLimiter(cfg.RateLimit, redisClient, log)

	screenMetrics := metrics.New()
	screener := client.New(cfg.Veria,
		client.WithLogger(log),
		client.WithMetrics(screenMetrics),
	)

	router := httptransport.NewRouter(httptransport.Deps{
		Screening:         handler.New(screener, log, screenMetrics),
		RateLimit:         limiter.RateLimit,
		Checks:            checks,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		Logger:            log,
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting veria screening proxy", "addr", cfg.Server.Addr, "endpoint", cfg.Veria.Endpoint)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweepWindows(gctx, memStore, cfg.RateLimit.Window)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRateLimiter counts in Redis when it is configured, falling back to
// process memory while Redis is failing; otherwise it counts in memory only.
// The returned memory store is the one that needs sweeping.
func newRateLimiter(cfg config.RateLimit, redisClient *redis.Client, log *slog.Logger) (*rlmiddleware.Middleware, *rlstore.InMemoryStore) {
	mem := rlstore.NewInMemoryStore()
	opts := []rlmiddleware.Option{rlmiddleware.WithMetrics(rlmetrics.New())}
	if redisClient == nil {
		return rlmiddleware.New(mem, cfg.Requests, cfg.Window, log, opts...), mem
	}
	opts = append(opts, rlmiddleware.WithFallback(mem, rlmiddleware.NewCircuitBreaker(5, 3)))
	return rlmiddleware.New(rlstore.NewRedisStore(redisClient.Client), cfg.Requests, cfg.Window, log, opts...), mem
}

// sweepWindows drops expired in-memory windows once per window until ctx ends.
func sweepWindows(ctx context.Context, mem *rlstore.InMemoryStore, window time.Duration) {
	if window <= 0 {
		return
	}
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			mem.Sweep()
		}
	}
}
