package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

func TestRegisterRejectsEmptyPath(t *testing.T) {
	s := New("")
	ok := s.Register(model.PartitionMeta{FilePath: ""})
	assert.False(t, ok)
}

func TestRegisterRejectsInvertedBounds(t *testing.T) {
	s := New("")
	ok := s.Register(model.PartitionMeta{FilePath: "a.parquet", MinTsNs: 10, MaxTsNs: 5})
	assert.False(t, ok)
}

func TestRegisterAcceptsZeroBoundsFallback(t *testing.T) {
	s := New("")
	ok := s.Register(model.PartitionMeta{FilePath: "a.parquet"})
	assert.True(t, ok)
	parts := s.Query(100, 200, "")
	require.Len(t, parts, 1)
}

func TestQueryIntersectionAndInstrumentFilter(t *testing.T) {
	s := New("")
	s.Register(model.PartitionMeta{FilePath: "a.parquet", InstrumentID: "rb2405", MinTsNs: 0, MaxTsNs: 100})
	s.Register(model.PartitionMeta{FilePath: "b.parquet", InstrumentID: "rb2405", MinTsNs: 200, MaxTsNs: 300})
	s.Register(model.PartitionMeta{FilePath: "c.parquet", InstrumentID: "cu2405", MinTsNs: 0, MaxTsNs: 100})

	got := s.Query(50, 150, "rb2405")
	require.Len(t, got, 1)
	assert.Equal(t, "a.parquet", got[0].FilePath)

	got = s.Query(0, 1000, "")
	assert.Len(t, got, 3)
}

func TestLoadTicksSortsAscendingAndPrunesWindow(t *testing.T) {
	dir := t.TempDir()
	partitionDir := filepath.Join(dir, "source=rb", "trading_day=2024-01-01", "instrument_id=rb2405")
	require.NoError(t, os.MkdirAll(partitionDir, 0o755))

	parquetPath := filepath.Join(partitionDir, "part-0000.parquet")
	require.NoError(t, os.WriteFile(parquetPath, []byte("not a real parquet file"), 0o644))

	csvSidecar := parquetPath + ".ticks.csv"
	csvContent := "symbol,exchange,ts_ns,last_price,last_volume,bid_price1,bid_volume1,ask_price1,ask_volume1,volume,turnover,open_interest\n" +
		"rb2405,SHFE,1704067200000000000,3500,1,3499,1,3501,1,1,3500,0\n" +
		"rb2405,SHFE,1704067201000000000,3501,1,3500,1,3502,1,1,3501,0\n" +
		"rb2405,SHFE,1704067500000000000,3510,1,3509,1,3511,1,1,3510,0\n"
	require.NoError(t, os.WriteFile(csvSidecar, []byte(csvContent), 0o644))

	s := New(dir)
	start := timestamp.MustParse("2024-01-01")
	end := timestamp.Timestamp(1_704_067_201_000_000_000)
	ticks := s.LoadTicks("rb2405", start, end)

	require.Len(t, ticks, 2)
	assert.True(t, ticks[0].TsNs <= ticks[1].TsNs)
	for _, tk := range ticks {
		assert.GreaterOrEqual(t, int64(tk.TsNs), int64(start))
		assert.LessOrEqual(t, int64(tk.TsNs), int64(end))
		assert.Equal(t, "rb2405", tk.Symbol)
	}
}

func TestLoadTicksStartAfterEndIsEmpty(t *testing.T) {
	s := New(t.TempDir())
	ticks := s.LoadTicks("x", 100, 50)
	assert.Empty(t, ticks)
}

func TestDiscoverParsesPartitionKeysAndSidecarMeta(t *testing.T) {
	dir := t.TempDir()
	partitionDir := filepath.Join(dir, "source=rb", "trading_day=2024-01-01", "instrument_id=rb2405")
	require.NoError(t, os.MkdirAll(partitionDir, 0o755))
	parquetPath := filepath.Join(partitionDir, "part-0000.parquet")
	require.NoError(t, os.WriteFile(parquetPath, []byte{}, 0o644))
	meta := "min_ts_ns=1704067200000000000\nmax_ts_ns=1704153600000000000\nrow_count=2\ngarbage-line\n"
	require.NoError(t, os.WriteFile(parquetPath+".meta", []byte(meta), 0o644))

	parts, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "rb2405", parts[0].InstrumentID)
	assert.Equal(t, "2024-01-01", parts[0].TradingDay)
	assert.Equal(t, timestamp.Timestamp(1704067200000000000), parts[0].MinTsNs)
	assert.Equal(t, int64(2), parts[0].RowCount)
}
