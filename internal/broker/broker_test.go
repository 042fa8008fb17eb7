package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidi150c/backtestcore/internal/model"
)

func defaultConfig() Config {
	return Config{
		InitialCapital:      1_000_000,
		CommissionRate:      0.0001,
		CloseCommissionRate: 0.0001,
	}
}

func TestMarketBuyFillsAtAsk(t *testing.T) {
	var orders []model.Order
	var trades []model.Trade
	b := New(defaultConfig(), func(o model.Order) { orders = append(orders, o) }, func(tr model.Trade) { trades = append(trades, tr) })

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 99, AskPrice1: 101, LastVolume: 10})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Market, Volume: 1})

	require.Len(t, trades, 1)
	assert.Equal(t, 101.0, trades[0].Price)
	assert.InDelta(t, 0.0101, trades[0].Commission, 1e-9)
	assert.InDelta(t, 999999.9899, b.AccountBalance(), 1e-6)
}

func TestLimitBuyWaitsForPrice(t *testing.T) {
	var trades []model.Trade
	b := New(defaultConfig(), nil, func(tr model.Trade) { trades = append(trades, tr) })

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 3500, AskPrice1: 3502})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Limit, Price: 3500, Volume: 1})
	assert.Empty(t, trades)

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 3499, AskPrice1: 3500})
	require.Len(t, trades, 1)
	assert.Equal(t, 3500.0, trades[0].Price)
}

func TestPartialFill(t *testing.T) {
	var orders []model.Order
	var trades []model.Trade
	cfg := defaultConfig()
	cfg.PartialFillEnabled = true
	b := New(cfg, func(o model.Order) { orders = append(orders, o) }, func(tr model.Trade) { trades = append(trades, tr) })

	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Limit, Price: 3501, Volume: 5})
	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 3499, AskPrice1: 3501, LastVolume: 1})

	require.Len(t, trades, 1)
	assert.Equal(t, 1.0, trades[0].Quantity)
	last := orders[len(orders)-1]
	assert.Equal(t, model.StatusPartiallyFilled, last.Status)
	assert.Equal(t, 4.0, last.RemainingVolume())
}

func TestCloseRealizesPnL(t *testing.T) {
	cfg := defaultConfig()
	cfg.CloseCommissionRate = 0.0002
	var trades []model.Trade
	b := New(cfg, nil, func(tr model.Trade) { trades = append(trades, tr) })

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 99, AskPrice1: 101})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Market, Volume: 2})

	balanceAfterOpen := b.AccountBalance()

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 110, AskPrice1: 111})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Sell, Offset: model.Close, Type: model.Market, Volume: 2})

	require.Len(t, trades, 2)
	closeTrade := trades[1]
	assert.Equal(t, 110.0, closeTrade.Price)

	expectedPnL := (110.0 - 101.0) * 2
	expectedCommission := 110.0 * 2 * 0.0002
	assert.InDelta(t, balanceAfterOpen+expectedPnL-expectedCommission, b.AccountBalance(), 1e-9)

	pos := b.GetPositions("X")
	assert.Empty(t, pos)
}

func TestOverCloseTruncatesSilently(t *testing.T) {
	b := New(defaultConfig(), nil, nil)
	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 99, AskPrice1: 101})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Market, Volume: 1})

	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 110, AskPrice1: 111})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Sell, Offset: model.Close, Type: model.Market, Volume: 5})

	pos := b.GetPositions("X")
	assert.Empty(t, pos)
}

func TestCancelOrderIdempotent(t *testing.T) {
	var orders []model.Order
	b := New(defaultConfig(), func(o model.Order) { orders = append(orders, o) }, nil)
	id := b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Limit, Price: 1, Volume: 1})

	assert.True(t, b.CancelOrder(id))
	assert.False(t, b.CancelOrder(id))

	canceled := orders[len(orders)-1]
	assert.Equal(t, model.StatusCanceled, canceled.Status)
	assert.Equal(t, 0.0, canceled.FilledQuantity)
	assert.Equal(t, 0.0, canceled.RemainingVolume())
}

// TestCancelAfterPartialFillPreservesFilledQuantity guards against the
// matching-state bug where canceling used to force FilledQuantity to
// Volume, making a partially filled order falsely report a complete fill.
func TestCancelAfterPartialFillPreservesFilledQuantity(t *testing.T) {
	var orders []model.Order
	cfg := defaultConfig()
	cfg.PartialFillEnabled = true
	b := New(cfg, func(o model.Order) { orders = append(orders, o) }, nil)

	id := b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Limit, Price: 3501, Volume: 5})
	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 3499, AskPrice1: 3501, LastVolume: 1})

	partial := orders[len(orders)-1]
	require.Equal(t, model.StatusPartiallyFilled, partial.Status)
	require.Equal(t, 1.0, partial.FilledQuantity)

	assert.True(t, b.CancelOrder(id))

	canceled := orders[len(orders)-1]
	assert.Equal(t, model.StatusCanceled, canceled.Status)
	assert.Equal(t, 1.0, canceled.FilledQuantity, "cancel must not alter FilledQuantity")
	assert.Equal(t, 0.0, canceled.RemainingVolume())
}

func TestCancelUnknownOrderReturnsFalse(t *testing.T) {
	b := New(defaultConfig(), nil, nil)
	assert.False(t, b.CancelOrder("ord-999"))
}

func TestFIFOLotConsumption(t *testing.T) {
	b := New(defaultConfig(), nil, nil)
	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 99, AskPrice1: 100})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Market, Volume: 1})
	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 99, AskPrice1: 105})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Buy, Offset: model.Open, Type: model.Market, Volume: 1})

	var trades []model.Trade
	b.onTrade = func(tr model.Trade) { trades = append(trades, tr) }
	balanceBeforeClose := b.AccountBalance()
	b.OnTick(model.Tick{Symbol: "X", BidPrice1: 110, AskPrice1: 111})
	b.PlaceOrder(model.OrderIntent{InstrumentID: "X", Side: model.Sell, Offset: model.Close, Type: model.Market, Volume: 1})

	require.Len(t, trades, 1)
	expectedPnL := 110.0 - 100.0 // closes the first (cheapest-opened, FIFO) lot
	realizedPnL := b.AccountBalance() - balanceBeforeClose + trades[0].Commission
	assert.InDelta(t, expectedPnL, realizedPnL, 1e-9)
}
