// FILE: decimal.go
// Package decimal – Scaled-integer arithmetic shared with adjacent systems.
//
// FixedDecimal canonicalizes a float64 price/quantity into a scaled int64
// (value * 10^scale) under one of three rounding modes, and back. It backs
// onto github.com/shopspring/decimal for the actual rounding arithmetic
// (shopspring already gets banker's-adjacent rounding right on the boundary
// cases that naive float math doesn't) and layers the saturating-to-int64
// conversion spec.md calls for on top, since shopspring's own conversions
// panic or overflow silently rather than saturate.
package decimal

import (
	"math"

	shopspring "github.com/shopspring/decimal"
)

// RoundingMode selects how ToScaled rounds the fractional remainder.
type RoundingMode int

const (
	// HalfUp rounds 0.5 away from zero.
	HalfUp RoundingMode = iota
	// Down truncates toward zero.
	Down
	// Up rounds away from zero whenever there is a nonzero remainder.
	Up
)

// ToScaled converts value to a scaled int64 (value * 10^scale), rounding per
// mode. Negative scales are treated as 0. Out-of-range results saturate to
// math.MinInt64 / math.MaxInt64.
func ToScaled(value float64, scale int, mode RoundingMode) int64 {
	if scale < 0 {
		scale = 0
	}
	if math.IsNaN(value) {
		return 0
	}
	d := shopspring.NewFromFloat(value).Shift(int32(scale))

	var rounded shopspring.Decimal
	switch mode {
	case Down:
		rounded = d.Truncate(0)
	case Up:
		rounded = roundAwayFromZero(d)
	default: // HalfUp
		rounded = d.Round(0)
	}

	return saturateInt64(rounded)
}

// Rescale converts a value already scaled by `from` digits into one scaled
// by `to` digits, rounding per mode. Negative scales are treated as 0.
func Rescale(value int64, from, to int, mode RoundingMode) int64 {
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = 0
	}
	d := shopspring.New(value, int32(-from)).Shift(int32(to))

	var rounded shopspring.Decimal
	switch mode {
	case Down:
		rounded = d.Truncate(0)
	case Up:
		rounded = roundAwayFromZero(d)
	default:
		rounded = d.Round(0)
	}
	return saturateInt64(rounded)
}

// ToDouble converts a scaled int64 back to a float64 given its scale.
// Negative scales are treated as 0.
func ToDouble(value int64, scale int) float64 {
	if scale < 0 {
		scale = 0
	}
	f, _ := shopspring.New(value, int32(-scale)).Float64()
	return f
}

func roundAwayFromZero(d shopspring.Decimal) shopspring.Decimal {
	truncated := d.Truncate(0)
	if d.Equal(truncated) {
		return truncated
	}
	if d.IsNegative() {
		return truncated.Sub(shopspring.NewFromInt(1))
	}
	return truncated.Add(shopspring.NewFromInt(1))
}

func saturateInt64(d shopspring.Decimal) int64 {
	maxD := shopspring.NewFromInt(math.MaxInt64)
	minD := shopspring.NewFromInt(math.MinInt64)
	if d.GreaterThan(maxD) {
		return math.MaxInt64
	}
	if d.LessThan(minD) {
		return math.MinInt64
	}
	return d.IntPart()
}
