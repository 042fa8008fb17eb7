// FILE: main.go
// Package main – Program entrypoint for the backtest CLI and its
// Prometheus/health server, adapted from the teacher's main.go boot
// sequence: load config -> wire components -> serve /metrics -> run ->
// report -> graceful shutdown. There is no "-live" mode here: replay is
// the only mode this binary supports (spec.md's non-goal: no live feed).
//
// Flags:
//   -root <dir>       Partitioned tick store root (default ./data)
//   -symbol <id>      Instrument to replay (default rb2405)
//   -start <date>     Replay window start, "2006-01-02" or full datetime
//   -end <date>       Replay window end
//   -capital <usd>    Initial account capital
//   -port <n>         Port for /metrics and /healthz
//
// Example:
//   go run ./cmd/backtest -root ./data -symbol rb2405 -start 2024-01-01 -end 2024-01-31
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chidi150c/backtestcore/internal/broker"
	"github.com/chidi150c/backtestcore/internal/engine"
	"github.com/chidi150c/backtestcore/internal/perf"
	"github.com/chidi150c/backtestcore/internal/replay"
	"github.com/chidi150c/backtestcore/internal/store"
	"github.com/chidi150c/backtestcore/internal/strategy"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

func main() {
	cfg := loadConfigFromEnv()

	flag.StringVar(&cfg.StoreRoot, "root", cfg.StoreRoot, "Partitioned tick store root")
	flag.StringVar(&cfg.Symbol, "symbol", cfg.Symbol, "Instrument to replay")
	flag.StringVar(&cfg.StartDate, "start", cfg.StartDate, "Replay window start")
	flag.StringVar(&cfg.EndDate, "end", cfg.EndDate, "Replay window end")
	flag.Float64Var(&cfg.InitialCapital, "capital", cfg.InitialCapital, "Initial account capital")
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Metrics/health server port")
	flag.Parse()

	traceID := uuid.New().String()
	log.Printf("backtest run trace_id=%s root=%s symbol=%s start=%s end=%s", traceID, cfg.StoreRoot, cfg.Symbol, cfg.StartDate, cfg.EndDate)

	start := timestamp.Timestamp(0)
	if cfg.StartDate != "" {
		var err error
		start, err = timestamp.Parse(cfg.StartDate)
		if err != nil {
			log.Fatalf("parse -start: %v", err)
		}
	}
	end := timestamp.Timestamp(1 << 62)
	if cfg.EndDate != "" {
		var err error
		end, err = timestamp.Parse(cfg.EndDate)
		if err != nil {
			log.Fatalf("parse -end: %v", err)
		}
	}

	// ---- Wiring: store -> feed -> strategy -> engine ----
	s := store.New(cfg.StoreRoot)
	feed := replay.New(s, start)

	handle := strategy.NewHandle("backtest-account", "reference-strategy")
	refCfg := strategy.DefaultReferenceConfig(cfg.Symbol)
	refCfg.BuyThreshold = cfg.BuyThreshold
	refCfg.SellThreshold = cfg.SellThreshold
	refCfg.UseMAFilter = cfg.UseMAFilter
	refCfg.Seed = cfg.Seed
	strat := strategy.NewReferenceStrategy(refCfg, handle)

	brokerCfg := broker.Config{
		InitialCapital:      cfg.InitialCapital,
		CommissionRate:      cfg.CommissionRate,
		CloseCommissionRate: cfg.CloseCommissionRate,
		Slippage:            cfg.Slippage,
		PartialFillEnabled:  cfg.PartialFillEnabled,
	}
	eng := engine.New(feed, brokerCfg, strat, handle, engine.Symbols{cfg.Symbol})

	// ---- HTTP metrics/health ----
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Port), Handler: mux}
	go func() {
		log.Printf("serving metrics on :%d/metrics", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result := runReplay(ctx, eng, start, end)
	report := perf.Analyze(result.EquityCurve, result.Trades)
	perf.PublishMetrics(report)
	logReport(cfg, report, len(result.Orders), len(result.Trades))

	shutdownCtx, c := context.WithTimeout(context.Background(), 2*time.Second)
	defer c()
	_ = srv.Shutdown(shutdownCtx)
}

func logReport(cfg Config, r perf.Result, orders, trades int) {
	log.Printf(
		"Replay complete. symbol=%s orders=%d trades=%d initial=%.2f final=%.2f net_profit=%.2f return=%.4f max_dd=%.2f(%.4f) sharpe=%.4f commission=%.2f",
		cfg.Symbol, orders, trades, r.InitialBalance, r.FinalBalance, r.NetProfit, r.TotalReturn, r.MaxDrawdown, r.MaxDrawdownPct, r.SharpeRatio, r.TotalCommission,
	)
}
