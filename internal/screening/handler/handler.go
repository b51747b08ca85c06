package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"veria/internal/screening"
	"veria/internal/screening/client"
	"veria/internal/screening/metrics"
	"veria/pkg/platform/httputil"
	"veria/pkg/platform/middleware/metadata"
)

const maxRequestBytes = 4 << 10

// Screener performs one upstream screening call.
type Screener interface {
	Screen(ctx context.Context, address string) (*screening.Result, error)
}

// Handler proxies screening requests so the API key never leaves the server.
type Handler struct {
	screener Screener
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs a screening handler with its dependencies.
func New(screener Screener, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{
		screener: screener,
		logger:   logger,
		metrics:  metrics,
	}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/screen", h.HandleScreen)
}

// HandleScreen handles POST /api/screen requests.
func (h *Handler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := chimw.GetReqID(ctx)
	start := time.Now()

	var req ScreenRequest
	if err := httputil.DecodeJSON(r.Body, maxRequestBytes, &req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error:            "bad_request",
			ErrorDescription: err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error:            "bad_request",
			ErrorDescription: err.Error(),
		})
		return
	}

	result, err := h.screener.Screen(ctx, req.Address)
	if err != nil {
		h.logger.ErrorContext(ctx, "screening failed",
			"request_id", requestID,
			"client_ip", metadata.GetClientIP(ctx),
			"upstream_status", client.StatusCode(err),
			"error", err,
		)
		writeUpstreamError(w, err)
		return
	}

	decision := screening.Decide(*result)
	h.metrics.IncrementOutcome(decision, result.Risk)

	h.logger.InfoContext(ctx, "address screened",
		"request_id", requestID,
		"risk", result.Risk,
		"score", result.Score,
		"sanctions_hit", result.Details.SanctionsHit,
		"decision", decision,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromResult(result, decision))
}

func writeUpstreamError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, client.ErrRequestFailed):
		httputil.WriteError(w, http.StatusBadGateway, httputil.ErrorResponse{
			Error:          "upstream_error",
			UpstreamStatus: client.StatusCode(err),
		})
	case errors.Is(err, client.ErrMalformedResponse):
		httputil.WriteError(w, http.StatusBadGateway, httputil.ErrorResponse{Error: "upstream_malformed"})
	case errors.Is(err, context.DeadlineExceeded):
		httputil.WriteError(w, http.StatusGatewayTimeout, httputil.ErrorResponse{Error: "upstream_timeout"})
	default:
		httputil.WriteError(w, http.StatusBadGateway, httputil.ErrorResponse{Error: "upstream_unavailable"})
	}
}
