package models

import (
	"math"
	"time"
)

// KeyPrefix namespaces rate limit counters in shared stores.
const KeyPrefix = "veria:ratelimit:"

// NewIPKey builds the counter key for a client IP.
func NewIPKey(ip string) string {
	if ip == "" {
		ip = "unknown"
	}
	return KeyPrefix + "ip:" + ip
}

// Result represents the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is whole seconds until the window resets; zero when allowed.
	RetryAfter int
}

// NewResult derives a Result from the counter value after the current request.
func NewResult(count, limit int, resetAt, now time.Time) *Result {
	r := &Result{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		ResetAt:   resetAt,
	}
	if !r.Allowed {
		r.RetryAfter = int(math.Ceil(resetAt.Sub(now).Seconds()))
		if r.RetryAfter < 1 {
			r.RetryAfter = 1
		}
	}
	return r
}

// RateLimitExceededResponse is the API response when rate limit is exceeded.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"` // seconds
}
