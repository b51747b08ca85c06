package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veria/pkg/platform/httputil"
	"veria/pkg/platform/middleware/metadata"
)

// HealthChecker reports whether a backing dependency is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the pieces the router mounts.
type Deps struct {
	Screening interface{ Register(r chi.Router) }
	// RateLimit wraps /api routes; nil leaves them unlimited.
	RateLimit func(http.Handler) http.Handler
	// Checks are run by GET /health, keyed by dependency name.
	Checks map[string]HealthChecker
	// Metrics serves GET /metrics; nil uses the default Prometheus registry.
	Metrics http.Handler
	// TrustProxyHeaders keys clients on forwarding headers instead of the peer
	// address. Enable only behind a reverse proxy that sets them.
	TrustProxyHeaders bool
	Logger            *slog.Logger
}

// NewRouter wires the proxy's public endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if deps.TrustProxyHeaders {
		r.Use(metadata.ProxiedClientMetadata)
	} else {
		r.Use(metadata.ClientMetadata)
	}

	metricsHandler := deps.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	r.Get("/health", healthHandler(deps.Checks, deps.Logger))

	r.Route("/api", func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit)
		}
		deps.Screening.Register(r)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		for name, check := range checks {
			if resp.Checks == nil {
				resp.Checks = make(map[string]string, len(checks))
			}
			if err := check.Health(ctx); err != nil {
				if logger != nil {
					logger.WarnContext(ctx, "health check failed", "dependency", name, "error", err)
				}
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
