// FILE: reference.go
// Package strategy – ReferenceStrategy: a concrete Strategy demonstrating
// the capability, adapted from the teacher's AIMicroModel (model.go) and
// decide() (strategy.go): a tiny logistic-regression probability blended
// with an EMA(4)/EMA(8) crossover regime filter. Trimmed down for the
// backtesting core — no online fit(), no extended-feature model, no .env
// thresholds — and rewired from []Candle to a rolling window of Tick
// last-prices, since replay here is tick-driven, not bar-driven.
//
// Determinism (spec.md §9): the teacher seeds its model from wall-clock
// time; a backtest must reproduce bit-for-bit given the same input, so
// ReferenceStrategy seeds its weights from a fixed ReferenceConfig.Seed instead.
package strategy

import (
	"math"
	"math/rand"

	"github.com/chidi150c/backtestcore/internal/model"
)

// microModel is a 4-feature logistic regression over
// [ret1, ret5, rsi14/100, zscore20], mirroring the teacher's AIMicroModel.
type microModel struct {
	w []float64
	b float64
}

func newMicroModel(seed int64) *microModel {
	r := rand.New(rand.NewSource(seed))
	w := make([]float64, 4)
	for i := range w {
		w[i] = r.NormFloat64() * 0.01
	}
	return &microModel{w: w}
}

func sigmoid(x float64) float64 {
	if x > 20 {
		return 1
	}
	if x < -20 {
		return 0
	}
	return 1 / (1 + math.Exp(-x))
}

func (m *microModel) predict(features []float64) float64 {
	if len(features) != len(m.w) {
		return 0.5
	}
	z := m.b
	for i := range features {
		z += m.w[i] * features[i]
	}
	return sigmoid(z)
}

// ReferenceConfig parameterizes ReferenceStrategy.
type ReferenceConfig struct {
	Symbol        string
	Volume        float64
	BuyThreshold  float64
	SellThreshold float64
	UseMAFilter   bool
	Seed          int64
	MaxWindow     int
}

// DefaultReferenceConfig mirrors the teacher's BUY_THRESHOLD/SELL_THRESHOLD
// defaults (0.55/0.45) and USE_MA_FILTER default (true).
func DefaultReferenceConfig(symbol string) ReferenceConfig {
	return ReferenceConfig{
		Symbol:        symbol,
		Volume:        1,
		BuyThreshold:  0.55,
		SellThreshold: 0.45,
		UseMAFilter:   true,
		Seed:          1,
		MaxWindow:     500,
	}
}

// ReferenceStrategy is a pUp-plus-EMA-regime strategy over one symbol. It
// holds at most one open lot at a time: flat -> long via Buy, long -> flat
// via Sell. It never shorts.
type ReferenceStrategy struct {
	cfg   ReferenceConfig
	model *microModel
	h     *Handle

	closes []float64
	long   bool
}

// NewReferenceStrategy returns a ReferenceStrategy bound to h.
func NewReferenceStrategy(cfg ReferenceConfig, h *Handle) *ReferenceStrategy {
	return &ReferenceStrategy{
		cfg:   cfg,
		model: newMicroModel(cfg.Seed),
		h:     h,
	}
}

// Initialize resets accumulated state. Safe to call before the first tick.
func (s *ReferenceStrategy) Initialize() {
	s.closes = s.closes[:0]
	s.long = false
}

// OnTick appends the tick's last price to the rolling window and, once
// enough history exists, evaluates the buy/sell decision.
func (s *ReferenceStrategy) OnTick(t model.Tick) {
	if t.Symbol != s.cfg.Symbol {
		return
	}
	s.closes = append(s.closes, t.LastPrice)
	if len(s.closes) > s.cfg.MaxWindow {
		s.closes = s.closes[len(s.closes)-s.cfg.MaxWindow:]
	}
	if len(s.closes) < 40 {
		return
	}

	switch s.decide() {
	case signalBuy:
		if !s.long {
			s.h.Buy(s.cfg.Symbol, askOrLast(t), s.cfg.Volume)
			s.long = true
		}
	case signalSell:
		if s.long {
			s.h.Sell(s.cfg.Symbol, bidOrLast(t), s.cfg.Volume)
			s.long = false
		}
	}
}

func askOrLast(t model.Tick) float64 {
	if t.AskPrice1 > 0 {
		return t.AskPrice1
	}
	return t.LastPrice
}

func bidOrLast(t model.Tick) float64 {
	if t.BidPrice1 > 0 {
		return t.BidPrice1
	}
	return t.LastPrice
}

// OnBar is a no-op: ReferenceStrategy trades off ticks only.
func (s *ReferenceStrategy) OnBar(model.Bar) {}

// OnOrder is a no-op: ReferenceStrategy does not track order acks.
func (s *ReferenceStrategy) OnOrder(model.Order) {}

// OnTrade is a no-op: position state is tracked locally via s.long.
func (s *ReferenceStrategy) OnTrade(model.Trade) {}

type signal int

const (
	signalFlat signal = iota
	signalBuy
	signalSell
)

// decide reproduces the teacher's pUp-plus-regime-filter gate over the
// current window's last index.
func (s *ReferenceStrategy) decide() signal {
	i := len(s.closes) - 1
	rsis := rsi(s.closes, 14)
	zs := zscore(s.closes, 20)
	ret1 := (s.closes[i] - s.closes[i-1]) / s.closes[i-1]
	ret5 := (s.closes[i] - s.closes[i-5]) / s.closes[i-5]
	features := []float64{ret1, ret5, rsis[i] / 100.0, zs[i]}
	pUp := s.model.predict(features)

	ema4 := ema(s.closes, 4)
	ema8 := ema(s.closes, 8)
	fast, slow := ema4[i], ema8[i]
	fast3, slow3 := ema4[i-3], ema8[i-3]

	buyMA, sellMA := false, false
	if !math.IsNaN(fast) && !math.IsNaN(slow) && !math.IsNaN(fast3) && !math.IsNaN(slow3) {
		lowBottom := fast3 < slow3 && fast < slow
		highPeak := slow3 < fast3 && slow < fast
		priceDownGoingUp := slow > fast && slow3 > fast3
		priceUpGoingDown := fast > slow && fast3 > slow3

		switch {
		case lowBottom:
			buyMA = true
		case highPeak:
			sellMA = true
		case priceDownGoingUp:
			buyMA = true
		case priceUpGoingDown:
			sellMA = true
		}
	}

	if pUp > s.cfg.BuyThreshold && (!s.cfg.UseMAFilter || buyMA) {
		return signalBuy
	}
	if pUp < s.cfg.SellThreshold && (!s.cfg.UseMAFilter || sellMA) {
		return signalSell
	}
	return signalFlat
}

var _ Strategy = (*ReferenceStrategy)(nil)
