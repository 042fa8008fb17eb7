// FILE: strategy.go
// Package strategy – the Strategy capability (spec.md §6) and the Handle a
// strategy uses to act on its bound broker/feed.
//
// The source binds a strategy to its broker with a raw, owning pointer set
// once at construction; spec.md §9 asks a systems-language port to prefer
// an explicit handle that delegates without holding that pointer directly.
// Handle is exactly that: a non-owning reference, bound once by the engine,
// that turns buy/sell/cancel into Limit OrderIntents the way the teacher's
// Trader turned a Decision into a PlaceMarketQuote call.
package strategy

import (
	"errors"

	"github.com/chidi150c/backtestcore/internal/broker"
	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/replay"
)

// ErrNotBound is returned by a Handle action invoked before Bind.
var ErrNotBound = errors.New("strategy: handle not bound")

// Strategy is the capability set the replay engine drives.
type Strategy interface {
	Initialize()
	OnTick(model.Tick)
	OnBar(model.Bar)
	OnOrder(model.Order)
	OnTrade(model.Trade)
}

// Handle is the non-owning reference a Strategy uses to place/cancel
// orders. The engine binds it once, at construction; it is never re-bound.
type Handle struct {
	accountID  string
	strategyID string

	broker *broker.SimulatedBroker
	feed   replay.Feed

	clientSeq     int
	clientToOrder map[string]string
}

// NewHandle returns an unbound Handle for accountID/strategyID.
func NewHandle(accountID, strategyID string) *Handle {
	return &Handle{
		accountID:     accountID,
		strategyID:    strategyID,
		clientToOrder: make(map[string]string),
	}
}

// Bind wires the handle to its broker and feed. Called once by the engine.
func (h *Handle) Bind(b *broker.SimulatedBroker, f replay.Feed) {
	h.broker = b
	h.feed = f
}

// Bound reports whether Bind has been called.
func (h *Handle) Bound() bool { return h.broker != nil }

// Buy places a Limit Buy, Open order and returns a client order id.
func (h *Handle) Buy(symbol string, price, volume float64) (string, error) {
	return h.place(symbol, model.Buy, model.Open, price, volume)
}

// Sell places a Limit Sell, Close order and returns a client order id.
func (h *Handle) Sell(symbol string, price, volume float64) (string, error) {
	return h.place(symbol, model.Sell, model.Close, price, volume)
}

func (h *Handle) place(symbol string, side model.Side, offset model.Offset, price, volume float64) (string, error) {
	if !h.Bound() {
		return "", ErrNotBound
	}
	h.clientSeq++
	clientID := clientOrderID(h.clientSeq)
	orderID := h.broker.PlaceOrder(model.OrderIntent{
		AccountID:     h.accountID,
		ClientOrderID: clientID,
		StrategyID:    h.strategyID,
		InstrumentID:  symbol,
		Side:          side,
		Offset:        offset,
		Type:          model.Limit,
		Volume:        volume,
		Price:         price,
		TsNs:          h.feed.CurrentTime(),
	})
	h.clientToOrder[clientID] = orderID
	return clientID, nil
}

// CancelOrder cancels by client_order_id. An unknown client id is a
// non-error no-op, matching spec.md §7's "cancellation of an unknown order
// is a non-error false".
func (h *Handle) CancelOrder(clientOrderID string) error {
	if !h.Bound() {
		return ErrNotBound
	}
	orderID, ok := h.clientToOrder[clientOrderID]
	if !ok {
		return nil
	}
	h.broker.CancelOrder(orderID)
	return nil
}

func clientOrderID(seq int) string {
	const prefix = "cli-"
	return prefix + itoa(seq)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
