// Package cli prints one screening verdict and maps it to a process exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"veria/internal/screening"
)

// SampleAddress is screened when no address argument is given.
const SampleAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

// Process exit codes.
const (
	ExitAllow = 0
	ExitBlock = 1
	ExitError = 1
)

// Screener performs one screening call.
type Screener interface {
	Screen(ctx context.Context, address string) (*screening.Result, error)
}

// Run screens address, writes the verdict to w, and returns the exit code.
func Run(ctx context.Context, w io.Writer, logger *slog.Logger, s Screener, address string) int {
	result, err := s.Screen(ctx, address)
	if err != nil {
		logger.ErrorContext(ctx, "screening failed", "address", address, "error", err)
		fmt.Fprintln(w, "Error:", err)
		return ExitError
	}

	fmt.Fprintf(w, "Risk: %s\n", result.Risk)
	fmt.Fprintf(w, "Score: %s\n", strconv.FormatFloat(result.Score, 'f', -1, 64))
	fmt.Fprintf(w, "Sanctions hit: %v\n", result.Details.SanctionsHit)

	decision := screening.Decide(*result)
	logger.DebugContext(ctx, "screening decided", "address", address, "risk", result.Risk, "decision", decision)

	if decision == screening.DecisionBlock {
		fmt.Fprintln(w, "BLOCKED: High risk address")
		return ExitBlock
	}
	fmt.Fprintln(w, "ALLOWED: Address is safe")
	return ExitAllow
}

// AddressFromArgs returns the first positional argument, or SampleAddress.
func AddressFromArgs(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return SampleAddress
}
