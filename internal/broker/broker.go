// FILE: broker.go
// Package broker – SimulatedBroker: a deterministic per-symbol matching
// engine plus cash and position bookkeeping (spec.md §4.4).
//
// This is the adapted descendant of the teacher's Broker/PaperBroker split
// (broker.go, broker_paper.go): same idea — an interface the replay engine
// talks to, with a single in-memory implementation that never touches the
// network — generalized from "simulate one market order against the latest
// price" to the full tick-by-tick matching state machine spec.md requires:
// pending order books per side, FIFO lot consumption, slippage, and two
// commission rates (open vs. close).
package broker

import (
	"fmt"
	"strconv"

	"github.com/chidi150c/backtestcore/internal/model"
)

// Config holds the broker's economic parameters for one backtest run.
type Config struct {
	InitialCapital      float64
	CommissionRate      float64
	CloseCommissionRate float64
	Slippage            float64
	PartialFillEnabled  bool
}

// OrderCallback is invoked whenever an order is created or transitions.
type OrderCallback func(model.Order)

// TradeCallback is invoked whenever a trade is emitted.
type TradeCallback func(model.Trade)

// SimulatedBroker matches OrderIntents against Ticks, maintaining cash and
// per-instrument position lots. Not safe for concurrent use from more than
// one replay thread; see spec.md §5 for the concurrency model this assumes.
type SimulatedBroker struct {
	cfg Config

	onOrder OrderCallback
	onTrade TradeCallback

	accountBalance float64

	pendingBuys  []*model.Order
	pendingSells []*model.Order

	lotsBySymbol     map[string][]model.PositionLot
	lastTickBySymbol map[string]model.Tick

	idSeed int64
}

// New returns a SimulatedBroker seeded with cfg.InitialCapital.
func New(cfg Config, onOrder OrderCallback, onTrade TradeCallback) *SimulatedBroker {
	return &SimulatedBroker{
		cfg:              cfg,
		onOrder:          onOrder,
		onTrade:          onTrade,
		accountBalance:   cfg.InitialCapital,
		lotsBySymbol:     make(map[string][]model.PositionLot),
		lastTickBySymbol: make(map[string]model.Tick),
	}
}

// AccountBalance is the current cash balance: initial capital minus
// commissions paid plus realized P&L on closes.
func (b *SimulatedBroker) AccountBalance() float64 {
	return b.accountBalance
}

func (b *SimulatedBroker) nextOrderID() string {
	b.idSeed++
	return "ord-" + strconv.FormatInt(b.idSeed, 10)
}

func (b *SimulatedBroker) nextTradeID() string {
	b.idSeed++
	return "trd-" + strconv.FormatInt(b.idSeed, 10)
}

// PlaceOrder builds a New order from intent, appends it to the matching
// side's book, emits the order callback, and — if a last tick exists for
// the symbol — immediately re-enters matching so the order can fill
// synchronously at placement time (spec.md §4.4, §4.3 rationale). Returns
// the generated order_id.
func (b *SimulatedBroker) PlaceOrder(intent model.OrderIntent) string {
	order := &model.Order{
		OrderIntent: intent,
		OrderID:     b.nextOrderID(),
		Status:      model.StatusNew,
		CreatedAtNs: intent.TsNs,
		UpdatedAtNs: intent.TsNs,
	}
	switch intent.Side {
	case model.Buy:
		b.pendingBuys = append(b.pendingBuys, order)
	case model.Sell:
		b.pendingSells = append(b.pendingSells, order)
	}
	b.emitOrder(order)

	if tick, ok := b.lastTickBySymbol[intent.InstrumentID]; ok {
		b.matchOrder(order, tick)
		b.sweepSide(&b.pendingBuys)
		b.sweepSide(&b.pendingSells)
	}
	return order.OrderID
}

// CancelOrder transitions a pending order to Canceled and emits the order
// callback. It does not touch FilledQuantity — RemainingVolume() already
// reports 0 for a Canceled order regardless of how much it filled before
// being canceled, so cancel never claims trades that did not happen.
// Canceling an unknown, already-filled, or already-canceled order is a
// no-op returning false; re-matching is never performed after a cancel.
func (b *SimulatedBroker) CancelOrder(orderID string) bool {
	for _, side := range [][]*model.Order{b.pendingBuys, b.pendingSells} {
		for _, o := range side {
			if o.OrderID != orderID {
				continue
			}
			if o.Status == model.StatusFilled || o.Status == model.StatusCanceled {
				return false
			}
			o.Status = model.StatusCanceled
			b.emitOrder(o)
			return true
		}
	}
	return false
}

// OnTick records the tick, attempts to fill each side's pending orders in
// insertion order, then removes any order that is fully filled or
// canceled.
func (b *SimulatedBroker) OnTick(tick model.Tick) {
	b.lastTickBySymbol[tick.Symbol] = tick
	for _, o := range b.pendingBuys {
		b.matchOrder(o, tick)
	}
	for _, o := range b.pendingSells {
		b.matchOrder(o, tick)
	}
	b.sweepSide(&b.pendingBuys)
	b.sweepSide(&b.pendingSells)
}

func (b *SimulatedBroker) sweepSide(side *[]*model.Order) {
	kept := (*side)[:0:0]
	for _, o := range *side {
		if o.RemainingVolume() == 0 || o.Status == model.StatusCanceled {
			continue
		}
		kept = append(kept, o)
	}
	*side = kept
}

// GetPositions returns a derived summary per symbol over held lots. An
// empty symbol returns every symbol with an open position.
func (b *SimulatedBroker) GetPositions(symbol string) []model.Position {
	var out []model.Position
	for sym, lots := range b.lotsBySymbol {
		if symbol != "" && sym != symbol {
			continue
		}
		pos := model.Position{Symbol: sym}
		for _, lot := range lots {
			switch lot.Direction {
			case model.Long:
				pos.LongQty += lot.Volume
			case model.Short:
				pos.ShortQty += lot.Volume
			}
		}
		if pos.LongQty != 0 || pos.ShortQty != 0 {
			out = append(out, pos)
		}
	}
	return out
}

func (b *SimulatedBroker) emitOrder(o *model.Order) {
	if b.onOrder != nil {
		b.onOrder(*o)
	}
}

func (b *SimulatedBroker) emitTrade(t model.Trade) {
	if b.onTrade != nil {
		b.onTrade(t)
	}
}

// matchOrder applies spec.md §4.4's matching algorithm for one pending
// order against one tick. It mutates order and, on a fill, the broker's
// cash/lot/callback state.
func (b *SimulatedBroker) matchOrder(order *model.Order, tick model.Tick) {
	remaining := order.RemainingVolume()
	if remaining <= 0 || tick.Symbol != order.InstrumentID {
		return
	}

	bid := tick.BidPrice1
	if bid <= 0 {
		bid = tick.LastPrice
	}
	ask := tick.AskPrice1
	if ask <= 0 {
		ask = tick.LastPrice
	}

	var shouldFill bool
	var matchPrice float64

	switch order.Type {
	case model.Market:
		shouldFill = true
		if order.Side == model.Buy {
			matchPrice = ask
		} else {
			matchPrice = bid
		}
	case model.Limit:
		if order.Side == model.Buy {
			shouldFill = order.Price >= ask
		} else {
			shouldFill = order.Price <= bid
		}
		matchPrice = order.Price
	}

	if !shouldFill {
		return
	}

	liquidity := tick.LastVolume
	if liquidity <= 0 {
		liquidity = remaining
	}
	fillQty := remaining
	if b.cfg.PartialFillEnabled {
		fillQty = clamp(minFloat(remaining, liquidity), 1, remaining)
	}

	filledPrice := matchPrice
	if b.cfg.Slippage > 0 {
		if order.Side == model.Buy {
			filledPrice = matchPrice + b.cfg.Slippage
		} else {
			filledPrice = matchPrice - b.cfg.Slippage
		}
	}

	rate := b.cfg.CommissionRate
	if order.Offset != model.Open {
		rate = b.cfg.CloseCommissionRate
	}
	commission := filledPrice * fillQty * rate

	order.FilledQuantity += fillQty
	order.AvgFillPrice = filledPrice
	order.UpdatedAtNs = tick.TsNs
	if order.RemainingVolume() == 0 {
		order.Status = model.StatusFilled
	} else {
		order.Status = model.StatusPartiallyFilled
	}

	trade := model.Trade{
		TradeID:    b.nextTradeID(),
		OrderID:    order.OrderID,
		AccountID:  order.AccountID,
		StrategyID: order.StrategyID,
		Symbol:     order.InstrumentID,
		Exchange:   tick.Exchange,
		Side:       order.Side,
		Offset:     order.Offset,
		Price:      filledPrice,
		Quantity:   fillQty,
		TradeTsNs:  tick.TsNs,
		Commission: commission,
	}

	b.applyTradeToPositions(trade)
	b.accountBalance -= commission

	b.emitOrder(order)
	b.emitTrade(trade)
}

// applyTradeToPositions opens a new lot, or closes existing lots FIFO,
// realizing P&L into the account balance. Over-close silently truncates
// (spec.md §4.4, §9 "Ambiguous over-close behavior" — preserved as-is).
func (b *SimulatedBroker) applyTradeToPositions(trade model.Trade) {
	if trade.Offset == model.Open {
		dir := model.Long
		if trade.Side == model.Sell {
			dir = model.Short
		}
		b.lotsBySymbol[trade.Symbol] = append(b.lotsBySymbol[trade.Symbol], model.PositionLot{
			Direction: dir,
			Volume:    trade.Quantity,
			OpenPrice: trade.Price,
		})
		return
	}

	target := model.Long
	if trade.Side == model.Buy {
		target = model.Short
	}

	lots := b.lotsBySymbol[trade.Symbol]
	remainingClose := trade.Quantity
	var realized float64
	kept := lots[:0:0]
	for _, lot := range lots {
		if remainingClose <= 0 || lot.Direction != target {
			kept = append(kept, lot)
			continue
		}
		matched := minFloat(lot.Volume, remainingClose)
		if target == model.Long {
			realized += (trade.Price - lot.OpenPrice) * matched
		} else {
			realized += (lot.OpenPrice - trade.Price) * matched
		}
		remainingClose -= matched
		lot.Volume -= matched
		if lot.Volume > 0 {
			kept = append(kept, lot)
		}
	}
	b.lotsBySymbol[trade.Symbol] = kept
	b.accountBalance += realized
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// OrderString helps debug-printf an order in tests and CLI output.
func OrderString(o model.Order) string {
	return fmt.Sprintf("%s %s %s vol=%.4f filled=%.4f status=%s", o.OrderID, o.Side, o.InstrumentID, o.Volume, o.FilledQuantity, o.Status)
}
