package screening

import (
	"errors"
	"fmt"
)

// RiskLevel is the categorical severity returned by the screening service.
// Invariant: the known levels form a closed set; only high and critical block.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// validRiskLevels is the single source of truth for the known levels.
var validRiskLevels = map[RiskLevel]bool{
	RiskLow:      true,
	RiskMedium:   true,
	RiskHigh:     true,
	RiskCritical: true,
}

// ErrUnknownRiskLevel is returned by ParseRiskLevel for values outside the known set.
var ErrUnknownRiskLevel = errors.New("unknown risk level")

// ParseRiskLevel constructs a RiskLevel from external input. Matching is case-sensitive.
func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRiskLevel, s)
	}
	return r, nil
}

// IsValid checks if the risk level is one of the known values.
func (r RiskLevel) IsValid() bool {
	return validRiskLevels[r]
}

// Blocking reports whether the level requires a block decision.
func (r RiskLevel) Blocking() bool {
	return r == RiskHigh || r == RiskCritical
}

func (r RiskLevel) String() string {
	return string(r)
}

// Request is the body sent to the screening endpoint. The address is sent as given.
type Request struct {
	Input string `json:"input"`
}

// Result is the screening service's verdict for one address.
type Result struct {
	Risk      RiskLevel `json:"risk"`
	Score     float64   `json:"score"`
	Chain     string    `json:"chain,omitempty"`
	Resolved  string    `json:"resolved,omitempty"`
	LatencyMs int64     `json:"latency_ms,omitempty"`
	Details   Details   `json:"details"`
}

// Details carries the list hits behind the risk level.
type Details struct {
	SanctionsHit bool     `json:"sanctions_hit"`
	PepHit       bool     `json:"pep_hit"`
	WatchlistHit bool     `json:"watchlist_hit"`
	CheckedLists []string `json:"checked_lists,omitempty"`
	AddressType  string   `json:"address_type,omitempty"`
}
