// Package client calls the Veria screening API for a single address.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"veria/internal/platform/config"
	"veria/internal/screening"
	"veria/internal/screening/metrics"
)

const (
	maxResponseBytes = 1 << 20
	maxErrorExcerpt  = 512
)

// Client issues screening requests. It is immutable after construction and
// safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics records upstream latency and failures.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New constructs a Client. A zero cfg.Timeout leaves the HTTP client default in place.
func New(cfg config.Veria, opts ...Option) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultVeriaEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Screen sends one address to the screening API and returns its parsed verdict.
//
// Errors: *RequestFailedError for non-2xx statuses, *MalformedResponseError when
// the body is not JSON or has no risk field. Transport failures are wrapped as-is.
func (c *Client) Screen(ctx context.Context, address string) (*screening.Result, error) {
	body, err := json.Marshal(screening.Request{Input: address})
	if err != nil {
		return nil, fmt.Errorf("encode screen request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build screen request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstreamLatency(time.Since(start))
	if err != nil {
		c.metrics.IncrementUpstreamError("transport")
		return nil, fmt.Errorf("screen request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.IncrementUpstreamError("transport")
		return nil, fmt.Errorf("read screen response: %w", err)
	}

	c.logger.DebugContext(ctx, "screen response received",
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	result, err := parseScreenResponse(resp.StatusCode, payload)
	if err != nil {
		c.metrics.IncrementUpstreamError(errorKind(err))
		return nil, err
	}
	return result, nil
}

// parseScreenResponse classifies the status and decodes the body. risk, score,
// details and details.sanctions_hit must be present and non-null; other members
// are optional.
func parseScreenResponse(status int, body []byte) (*screening.Result, error) {
	if status < 200 || status > 299 {
		return nil, &RequestFailedError{StatusCode: status, Body: excerpt(body)}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Underlying: err}
	}
	for _, name := range []string{"risk", "score", "details"} {
		if absent(fields[name]) {
			return nil, &MalformedResponseError{Reason: "missing " + name}
		}
	}
	var details map[string]json.RawMessage
	if err := json.Unmarshal(fields["details"], &details); err != nil {
		return nil, &MalformedResponseError{Reason: "details is not an object", Underlying: err}
	}
	if absent(details["sanctions_hit"]) {
		return nil, &MalformedResponseError{Reason: "missing details.sanctions_hit"}
	}

	var result screening.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &MalformedResponseError{Reason: "unexpected field type", Underlying: err}
	}
	if result.Risk == "" {
		return nil, &MalformedResponseError{Reason: "empty risk"}
	}
	return &result, nil
}

// absent reports whether a JSON member is missing or explicitly null.
func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func errorKind(err error) string {
	switch err.(type) {
	case *RequestFailedError:
		return "request_failed"
	case *MalformedResponseError:
		return "malformed_response"
	default:
		return "transport"
	}
}

func excerpt(body []byte) string {
	if len(body) > maxErrorExcerpt {
		body = body[:maxErrorExcerpt]
	}
	return string(bytes.TrimSpace(body))
}
