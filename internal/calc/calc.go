// Package calc implements the financial calculation engine: the budget
// summarizer, scenario evaluator, projection generator and goal progress
// calculator. Every calculator is a pure function over snapshots handed
// in by the caller; time-relative math takes the reference instant as a
// parameter so results are deterministic under test.
package calc

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrUnsupportedScenario indicates a scenario type this engine does
	// not know. Fatal to the call; signals a caller/version mismatch.
	ErrUnsupportedScenario = errors.New("unsupported scenario type")

	// ErrInsufficientData indicates the projection generator was invoked
	// without any transaction history.
	ErrInsufficientData = errors.New("not enough transaction data to generate projections")
)

// round2 rounds to 2 decimals, the resolution used for currency and
// percentage outputs. Non-finite values collapse to 0.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return math.Round(v*100) / 100
}

// round1 rounds to 1 decimal, used for month and hour counts.
func round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	return math.Round(v*10) / 10
}

// roundMonths converts a month count to 1 decimal, floored at 0.
// Infinite timelines become nil rather than an error or a NaN.
func roundMonths(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	r := max(round1(v), 0)

	return &r
}

// parseFlexibleDate accepts the date shapes that show up in free-form
// goal metadata: RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseFlexibleDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
