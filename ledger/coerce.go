package ledger

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Numeric edits never fail: malformed input falls back to a safe default so
// data entry is never blocked.

// CoerceQuantity truncates raw to an integer. Non-numeric input yields 1.
// The result may be zero or negative; callers treat that as a removal.
func CoerceQuantity(raw any) int {
	f, ok := toFloat(raw)
	if !ok {
		return 1
	}
	f = math.Trunc(f)
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(f)
}

// CoercePrice parses raw as a non-negative amount. Invalid or negative input yields 0.
func CoercePrice(raw any) float64 {
	f, ok := toFloat(raw)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// CoerceRate parses raw as a percentage. Invalid or negative input yields 0.
func CoerceRate(raw any) float64 {
	return CoercePrice(raw)
}

func toFloat(raw any) (float64, bool) {
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		raw = s
	}
	if raw == nil {
		return 0, false
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
