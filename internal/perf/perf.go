// FILE: perf.go
// Package perf – PerformanceAnalyzer: a one-pass reduction over an equity
// curve into the summary statistics a backtest report needs (spec.md
// §4.5). Grounded on the teacher's backtest.go, which reduces a simulated
// equity series into a final P&L line after a CSV replay; generalized here
// into a reusable, allocation-light Analyze over model.EquityPoint plus
// the additional drawdown/Sharpe/volatility statistics spec.md asks for.
package perf

import (
	"math"

	"github.com/chidi150c/backtestcore/internal/model"
)

// Result is the full summary statistics for one equity curve.
type Result struct {
	InitialBalance  float64
	FinalBalance    float64
	NetProfit       float64
	TotalReturn     float64
	MaxDrawdown     float64 // absolute currency units
	MaxDrawdownPct  float64 // ratio of running peak
	Volatility      float64 // population stddev of per-tick simple returns
	SharpeRatio     float64 // mean(returns) / volatility * sqrt(N)
	TotalCommission float64
	SampleCount     int
}

// Analyze reduces an equity curve (assumed time-ordered, as the engine
// produces it) plus the accompanying trades into a Result. An empty curve
// returns the zero Result.
func Analyze(curve []model.EquityPoint, trades []model.Trade) Result {
	var r Result
	if len(curve) == 0 {
		return r
	}

	r.InitialBalance = curve[0].Balance
	r.FinalBalance = curve[len(curve)-1].Balance
	r.NetProfit = r.FinalBalance - r.InitialBalance
	if r.InitialBalance != 0 {
		r.TotalReturn = r.NetProfit / r.InitialBalance
	}
	r.SampleCount = len(curve)

	peak := curve[0].Balance
	var maxDD, maxDDPct float64
	var returns []float64
	for i, pt := range curve {
		if pt.Balance > peak {
			peak = pt.Balance
		}
		if dd := peak - pt.Balance; dd > maxDD {
			maxDD = dd
			if peak != 0 {
				maxDDPct = dd / peak
			}
		}
		if i > 0 && curve[i-1].Balance != 0 {
			returns = append(returns, (pt.Balance-curve[i-1].Balance)/curve[i-1].Balance)
		}
	}
	r.MaxDrawdown = maxDD
	r.MaxDrawdownPct = maxDDPct

	if n := len(returns); n > 0 {
		var sum float64
		for _, x := range returns {
			sum += x
		}
		mean := sum / float64(n)

		var sumSq float64
		for _, x := range returns {
			d := x - mean
			sumSq += d * d
		}
		variance := sumSq / float64(n)
		r.Volatility = math.Sqrt(variance)
		if r.Volatility > 0 {
			r.SharpeRatio = (mean / r.Volatility) * math.Sqrt(float64(n))
		}
	}

	for _, tr := range trades {
		r.TotalCommission += tr.Commission
	}

	return r
}
