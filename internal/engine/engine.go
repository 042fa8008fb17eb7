// FILE: engine.go
// Package engine – ReplayEngine: binds a Feed, a SimulatedBroker, and a
// Strategy together and drives one deterministic replay (spec.md §4.3).
//
// Grounded on the teacher's Trader (trader.go: broker+model+decide loop)
// generalized from "poll an exchange on an interval" to "drain a
// time-ordered event queue synchronously" — there is no goroutine or
// ticker here, Run() is a single blocking call on the caller's goroutine.
package engine

import (
	"github.com/chidi150c/backtestcore/internal/broker"
	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/replay"
	"github.com/chidi150c/backtestcore/internal/strategy"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// Symbols lists the instruments the engine subscribes the feed to. An
// empty slice subscribes to every instrument the store has.
type Symbols []string

// ReplayEngine wires a Feed, a SimulatedBroker, and a Strategy into one
// run. Construct with New; the zero value is not usable.
type ReplayEngine struct {
	feed     replay.Feed
	broker   *broker.SimulatedBroker
	strategy strategy.Strategy
	handle   *strategy.Handle
	symbols  Symbols

	equity []model.EquityPoint
	orders []model.Order
	trades []model.Trade
}

// New constructs the SimulatedBroker from brokerCfg, wiring its order/trade
// callbacks to the engine itself, and binds handle to the resulting broker
// and feed. handle is the Handle the strategy uses to place orders.
func New(feed replay.Feed, brokerCfg broker.Config, strat strategy.Strategy, handle *strategy.Handle, symbols Symbols) *ReplayEngine {
	e := &ReplayEngine{
		feed:     feed,
		strategy: strat,
		handle:   handle,
		symbols:  symbols,
	}
	e.broker = broker.New(brokerCfg, e.OnOrder, e.OnTrade)
	handle.Bind(e.broker, feed)
	return e
}

// Broker returns the engine's SimulatedBroker, mainly for CLI reporting.
func (e *ReplayEngine) Broker() *broker.SimulatedBroker { return e.broker }

// Feed returns the engine's Feed, so a caller can wire external
// cancellation (e.g. Ctrl-C) to Feed.Stop().
func (e *ReplayEngine) Feed() replay.Feed { return e.feed }

// Run executes one full replay: strategy.Initialize(), then subscribes the
// engine's dispatch handlers on the feed and drains it to completion (or
// until the feed's Stop() is called, e.g. from within the strategy).
// Returns the accumulated ResultBundle.
func (e *ReplayEngine) Run(start, end timestamp.Timestamp) model.ResultBundle {
	e.strategy.Initialize()
	e.equity = nil
	e.orders = nil
	e.trades = nil

	e.feed.Subscribe([]string(e.symbols), start, end, e.onTick, e.onBar)
	e.feed.Run()

	return model.ResultBundle{
		Orders:      e.orders,
		Trades:      e.trades,
		EquityCurve: e.equity,
	}
}

func (e *ReplayEngine) onTick(t model.Tick) {
	e.strategy.OnTick(t)
	e.broker.OnTick(t)
	mtxEventsProcessed.Inc()

	balance := e.broker.AccountBalance()
	mtxEquity.Set(balance)
	e.equity = append(e.equity, model.EquityPoint{Time: t.TsNs, Balance: balance})
}

func (e *ReplayEngine) onBar(b model.Bar) {
	e.strategy.OnBar(b)
	mtxEventsProcessed.Inc()
}

// OnOrder and OnTrade are wired as the broker's callbacks by New
// (e.broker = broker.New(brokerCfg, e.OnOrder, e.OnTrade)) so the engine can
// record history and forward notifications to the strategy.

// OnOrder records an order transition, forwards it to the strategy, and
// increments the orders-placed metric on New orders.
func (e *ReplayEngine) OnOrder(o model.Order) {
	e.orders = append(e.orders, o)
	e.strategy.OnOrder(o)
	if o.Status == model.StatusNew {
		mtxOrdersTotal.WithLabelValues(string(o.Side)).Inc()
	}
}

// OnTrade records a trade, forwards it to the strategy, and increments the
// trades metric.
func (e *ReplayEngine) OnTrade(tr model.Trade) {
	e.trades = append(e.trades, tr)
	e.strategy.OnTrade(tr)
	mtxTradesTotal.WithLabelValues(string(tr.Side)).Inc()
}
