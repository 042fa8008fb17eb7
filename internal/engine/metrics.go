// FILE: metrics.go
// Package engine – Prometheus metrics for the replay engine, registered the
// way the teacher's metrics.go does: package-level vectors/gauges built in
// var blocks and wired up in init().
package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	mtxOrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_orders_total",
			Help: "Orders placed during replay, by side.",
		},
		[]string{"side"},
	)

	mtxTradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backtest_trades_total",
			Help: "Trades filled during replay, by side.",
		},
		[]string{"side"},
	)

	mtxEquity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "backtest_equity_usd",
			Help: "Account balance sampled on each tick during replay.",
		},
	)

	mtxEventsProcessed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backtest_events_processed_total",
			Help: "Tick and bar events dispatched to the strategy.",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxOrdersTotal, mtxTradesTotal, mtxEquity, mtxEventsProcessed)
}
