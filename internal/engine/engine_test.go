package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidi150c/backtestcore/internal/broker"
	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/replay"
	"github.com/chidi150c/backtestcore/internal/store"
	"github.com/chidi150c/backtestcore/internal/strategy"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

type buyOnceStrategy struct {
	h      *strategy.Handle
	symbol string
	bought bool
}

func (s *buyOnceStrategy) Initialize()            { s.bought = false }
func (s *buyOnceStrategy) OnBar(model.Bar)        {}
func (s *buyOnceStrategy) OnOrder(model.Order)    {}
func (s *buyOnceStrategy) OnTrade(model.Trade)    {}
func (s *buyOnceStrategy) OnTick(t model.Tick) {
	if !s.bought {
		s.h.Buy(s.symbol, t.AskPrice1, 1)
		s.bought = true
	}
}

func writePartition(t *testing.T, root, instrument string, rows []string) {
	t.Helper()
	dir := filepath.Join(root, "source=x", "trading_day=2024-01-01", "instrument_id="+instrument)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	parquetPath := filepath.Join(dir, "part-0000.parquet")
	require.NoError(t, os.WriteFile(parquetPath, []byte("not parquet"), 0o644))
	content := "symbol,exchange,ts_ns,last_price,last_volume,bid_price1,bid_volume1,ask_price1,ask_volume1,volume,turnover,open_interest\n"
	for _, r := range rows {
		content += r + "\n"
	}
	require.NoError(t, os.WriteFile(parquetPath+".ticks.csv", []byte(content), 0o644))
}

func TestReplayEngineRunProducesResultBundle(t *testing.T) {
	dir := t.TempDir()
	writePartition(t, dir, "X", []string{
		"X,EX,1000,100,1,99,1,101,1,1,100,0",
		"X,EX,2000,105,1,104,1,106,1,1,105,0",
	})

	s := store.New(dir)
	feed := replay.New(s, timestamp.Timestamp(0))
	h := strategy.NewHandle("acct-1", "strat-1")
	strat := &buyOnceStrategy{h: h, symbol: "X"}

	e := New(feed, broker.Config{InitialCapital: 10_000, CommissionRate: 0.0001, CloseCommissionRate: 0.0001}, strat, h, Symbols{"X"})
	result := e.Run(timestamp.Timestamp(0), timestamp.Timestamp(1<<62))

	require.Len(t, result.EquityCurve, 2)
	require.Len(t, result.Orders, 2) // New, then Filled
	assert.Equal(t, model.StatusFilled, result.Orders[1].Status)
	require.Len(t, result.Trades, 1)
	assert.Equal(t, 101.0, result.Trades[0].Price)
	assert.Less(t, result.EquityCurve[0].Balance, 10_000.0)
	assert.Equal(t, result.EquityCurve[0].Balance, result.EquityCurve[1].Balance)
}
