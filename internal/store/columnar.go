// FILE: columnar.go
// Package store – columnar tick reader backed by
// github.com/parquet-go/parquet-go.
//
// tickRow mirrors the columnar schema from spec.md §6 exactly: field order
// and names are symbol, exchange, ts_ns, last_price, last_volume,
// bid_price1, bid_volume1, ask_price1, ask_volume1, volume, turnover,
// open_interest. ts_ns is mandatory; everything else defaults to its zero
// value when the column is absent from an older partition file.
package store

import (
	"github.com/parquet-go/parquet-go"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

type tickRow struct {
	Symbol       string  `parquet:"symbol"`
	Exchange     string  `parquet:"exchange"`
	TsNs         int64   `parquet:"ts_ns"`
	LastPrice    float64 `parquet:"last_price"`
	LastVolume   float64 `parquet:"last_volume"`
	BidPrice1    float64 `parquet:"bid_price1"`
	BidVolume1   float64 `parquet:"bid_volume1"`
	AskPrice1    float64 `parquet:"ask_price1"`
	AskVolume1   float64 `parquet:"ask_volume1"`
	Volume       float64 `parquet:"volume"`
	Turnover     float64 `parquet:"turnover"`
	OpenInterest float64 `parquet:"open_interest"`
}

// readColumnar reads every row of a parquet partition file into Ticks. Any
// read/schema error is returned to the caller so it can fall back to the
// CSV sidecar.
func readColumnar(path string) ([]model.Tick, error) {
	rows, err := parquet.ReadFile[tickRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]model.Tick, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Tick{
			Symbol:       r.Symbol,
			Exchange:     r.Exchange,
			TsNs:         timestamp.Timestamp(r.TsNs),
			LastPrice:    r.LastPrice,
			LastVolume:   r.LastVolume,
			BidPrice1:    r.BidPrice1,
			BidVolume1:   r.BidVolume1,
			AskPrice1:    r.AskPrice1,
			AskVolume1:   r.AskVolume1,
			Volume:       r.Volume,
			Turnover:     r.Turnover,
			OpenInterest: r.OpenInterest,
		})
	}
	return out, nil
}
