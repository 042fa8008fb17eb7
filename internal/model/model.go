// FILE: model.go
// Package model – Immutable value records exchanged across the backtesting
// core: Tick, Bar, OrderIntent, Order, Trade, PositionLot/Position,
// PartitionMeta, and EquityPoint.
//
// Nothing in this package does I/O or holds mutable shared state; it is the
// shape every other package (store, replay, broker, engine, perf) speaks.
package model

import "github.com/chidi150c/backtestcore/internal/timestamp"

// Side is the direction of an order or trade.
type Side string

const (
	Buy  Side = "Buy"
	Sell Side = "Sell"
)

// Offset describes an order's intent relative to an existing position.
type Offset string

const (
	Open          Offset = "Open"
	Close         Offset = "Close"
	CloseToday    Offset = "CloseToday"
	CloseYesterday Offset = "CloseYesterday"
)

// OrderType is Market or Limit.
type OrderType string

const (
	Market OrderType = "Market"
	Limit  OrderType = "Limit"
)

// OrderStatus tracks an order's lifecycle. Status is monotone except
// New->Canceled; Filled iff FilledQuantity == Volume.
type OrderStatus string

const (
	StatusNew            OrderStatus = "New"
	StatusPartiallyFilled OrderStatus = "PartiallyFilled"
	StatusFilled         OrderStatus = "Filled"
	StatusCanceled       OrderStatus = "Canceled"
	StatusRejected       OrderStatus = "Rejected"
)

// Direction of an open PositionLot.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// Tick is one market data sample. Invariants: TsNs >= 0; a zero bid/ask
// means "unknown" and is substituted with LastPrice during matching.
type Tick struct {
	Symbol       string
	Exchange     string
	TsNs         timestamp.Timestamp
	LastPrice    float64
	LastVolume   float64
	BidPrice1    float64
	BidVolume1   float64
	AskPrice1    float64
	AskVolume1   float64
	Volume       float64
	Turnover     float64
	OpenInterest float64
}

// Bar is an OHLCV aggregate over a fixed duration, queued alongside Tick
// events in the replay feed.
type Bar struct {
	Symbol   string
	Exchange string
	TsNs     timestamp.Timestamp
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// OrderIntent is what a strategy hands to the broker to request a new order.
type OrderIntent struct {
	AccountID     string
	ClientOrderID string
	StrategyID    string
	InstrumentID  string
	Side          Side
	Offset        Offset
	Type          OrderType
	Volume        float64
	Price         float64
	TsNs          timestamp.Timestamp
	TraceID       string
}

// Order is an OrderIntent plus the broker's mutable matching state.
type Order struct {
	OrderIntent
	OrderID        string
	FilledQuantity float64
	AvgFillPrice   float64
	Status         OrderStatus
	CreatedAtNs    timestamp.Timestamp
	UpdatedAtNs    timestamp.Timestamp
}

// RemainingVolume is Volume - FilledQuantity, clamped at 0. A Canceled
// order has no remaining volume regardless of FilledQuantity, which keeps
// FilledQuantity honest as "quantity actually filled by trades" rather than
// overloading it to also mean "no longer workable".
func (o *Order) RemainingVolume() float64 {
	if o.Status == StatusCanceled {
		return 0
	}
	r := o.Volume - o.FilledQuantity
	if r < 0 {
		return 0
	}
	return r
}

// Trade is one fill emitted by the broker.
type Trade struct {
	TradeID    string
	OrderID    string
	AccountID  string
	StrategyID string
	Symbol     string
	Exchange   string
	Side       Side
	Offset     Offset
	Price      float64
	Quantity   float64
	TradeTsNs  timestamp.Timestamp
	Commission float64
}

// PositionLot is one unit of open position created by one opening trade.
// Lots are held FIFO per instrument and consumed on closes.
type PositionLot struct {
	Direction Direction
	Volume    float64
	OpenPrice float64
}

// Position is a derived summary view over lots for one symbol.
type Position struct {
	Symbol   string
	LongQty  float64
	ShortQty float64
}

// PartitionMeta describes one registered tick-store partition.
type PartitionMeta struct {
	FilePath     string
	TradingDay   string
	InstrumentID string
	MinTsNs      timestamp.Timestamp
	MaxTsNs      timestamp.Timestamp
	RowCount     int64
}

// EquityPoint is one sample of the balance-vs-time equity curve.
type EquityPoint struct {
	Time    timestamp.Timestamp
	Balance float64
}

// ResultBundle is the output of one replay: orders, trades, and the
// equity curve, consumed by the performance analyzer.
type ResultBundle struct {
	Orders      []Order
	Trades      []Trade
	EquityCurve []EquityPoint
}
