// FILE: metrics.go
// Package perf – Prometheus gauges publishing the latest Analyze() result,
// registered in init() the way the teacher registers bot_equity_usd etc.
package perf

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxNetProfit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_net_profit_usd",
			Help: "Net profit over the analyzed equity curve.",
		},
	)

	mtxMaxDrawdownPct = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_max_drawdown_ratio",
			Help: "Maximum drawdown as a ratio of the running equity peak.",
		},
	)

	mtxSharpeRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_sharpe_ratio",
			Help: "Sharpe ratio computed over per-tick simple returns.",
		},
	)

	mtxTotalCommission = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_total_commission_usd",
			Help: "Total commission paid across all trades in the run.",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxNetProfit, mtxMaxDrawdownPct, mtxSharpeRatio, mtxTotalCommission)
}

// PublishMetrics sets the package's gauges from r. Call once per completed
// run before serving /metrics.
func PublishMetrics(r Result) {
	mtxNetProfit.Set(r.NetProfit)
	mtxMaxDrawdownPct.Set(r.MaxDrawdownPct)
	mtxSharpeRatio.Set(r.SharpeRatio)
	mtxTotalCommission.Set(r.TotalCommission)
}
