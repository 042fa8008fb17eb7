// FILE: bars.go
// Package replay – load_history_bars: a symmetrical counterpart to the
// store's load_ticks, aggregating loaded ticks into fixed-duration OHLCV
// bars. The original C++ data feed always carried both ticks and bars
// (original_source/src/core/market); the distillation dropped bar loading,
// so this restores it in the teacher's own Candle-aggregation idiom
// (backtest.go's CSV-to-Candle path) applied to Tick instead of
// pre-aggregated rows.
package replay

import (
	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// LoadHistoryBars loads ticks for symbol in [start, end] from the feed's
// store and aggregates them into bars of bucketNs width, bucket boundaries
// aligned to multiples of bucketNs since the epoch. bucketNs <= 0 returns
// nil.
func (f *ReplayFeed) LoadHistoryBars(symbol string, start, end timestamp.Timestamp, bucketNs int64) []model.Bar {
	if bucketNs <= 0 {
		return nil
	}
	ticks := f.store.LoadTicks(symbol, start, end)
	return AggregateBars(ticks, bucketNs)
}

// AggregateBars buckets ticks (assumed sorted ascending by TsNs, as
// LoadTicks guarantees) into OHLCV bars of bucketNs width.
func AggregateBars(ticks []model.Tick, bucketNs int64) []model.Bar {
	if bucketNs <= 0 || len(ticks) == 0 {
		return nil
	}
	var out []model.Bar
	var cur *model.Bar
	var curBucket int64 = -1

	for _, t := range ticks {
		bucket := int64(t.TsNs) / bucketNs
		if cur == nil || bucket != curBucket {
			if cur != nil {
				out = append(out, *cur)
			}
			curBucket = bucket
			cur = &model.Bar{
				Symbol:   t.Symbol,
				Exchange: t.Exchange,
				TsNs:     timestamp.Timestamp(bucket * bucketNs),
				Open:     t.LastPrice,
				High:     t.LastPrice,
				Low:      t.LastPrice,
				Close:    t.LastPrice,
				Volume:   t.LastVolume,
			}
			continue
		}
		if t.LastPrice > cur.High {
			cur.High = t.LastPrice
		}
		if t.LastPrice < cur.Low {
			cur.Low = t.LastPrice
		}
		cur.Close = t.LastPrice
		cur.Volume += t.LastVolume
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}
