// FILE: csv.go
// Package store – CSV sidecar fallback reader, used when a partition's
// columnar file can't be read. First line is a header naming fields;
// remaining lines are comma-separated records with double-quote escaping
// (handled by encoding/csv, same as the teacher's loadCSV in backtest.go).
package store

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// readCSVSidecar reads a "<file>.parquet.ticks.csv" sidecar. Per-row parse
// failures are skipped silently; a missing file is a normal read error for
// the caller to propagate as a skip.
func readCSVSidecar(path string) ([]model.Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var out []model.Tick
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed row is skipped, not fatal to the partition.
			continue
		}
		t, ok := parseCSVRow(cols, rec)
		if !ok {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func parseCSVRow(cols map[string]int, rec []string) (model.Tick, bool) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	tsStr := field("ts_ns")
	if tsStr == "" {
		return model.Tick{}, false
	}
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return model.Tick{}, false
	}

	f64 := func(name string) float64 {
		v, _ := strconv.ParseFloat(field(name), 64)
		return v
	}

	return model.Tick{
		Symbol:       field("symbol"),
		Exchange:     field("exchange"),
		TsNs:         timestamp.Timestamp(ts),
		LastPrice:    f64("last_price"),
		LastVolume:   f64("last_volume"),
		BidPrice1:    f64("bid_price1"),
		BidVolume1:   f64("bid_volume1"),
		AskPrice1:    f64("ask_price1"),
		AskVolume1:   f64("ask_volume1"),
		Volume:       f64("volume"),
		Turnover:     f64("turnover"),
		OpenInterest: f64("open_interest"),
	}, true
}
