// FILE: discover.go
// Package store – filesystem discovery of *.parquet partitions and their
// .meta sidecars.
package store

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// Discover recursively scans root for *.parquet files, parses partition
// keys (trading_day, instrument_id) from any "key=value" path segment, and
// reads each file's .meta sidecar for min_ts_ns/max_ts_ns/row_count.
// Malformed sidecar lines are skipped silently. Results are sorted by
// (MinTsNs, FilePath).
func Discover(root string) ([]model.PartitionMeta, error) {
	var out []model.PartitionMeta
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are skipped, not fatal to discovery.
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(path, ".parquet") {
			return nil
		}
		meta := model.PartitionMeta{FilePath: path}
		for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
			k, v, ok := splitKV(seg)
			if !ok {
				continue
			}
			switch k {
			case "trading_day":
				meta.TradingDay = v
			case "instrument_id":
				meta.InstrumentID = v
			}
		}
		applySidecarMeta(&meta)
		out = append(out, meta)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortPartitions(out)
	return out, nil
}

func splitKV(seg string) (key, value string, ok bool) {
	eq := strings.Index(seg, "=")
	if eq <= 0 || eq == len(seg)-1 {
		return "", "", false
	}
	return seg[:eq], seg[eq+1:], true
}

// applySidecarMeta reads "<file>.parquet.meta" (newline-separated key=value)
// into meta, leaving fields untouched when the sidecar is absent or a line
// is malformed.
func applySidecarMeta(meta *model.PartitionMeta) {
	f, err := os.Open(meta.FilePath + ".meta")
	if err != nil {
		return
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		k, v, ok := splitKV(line)
		if !ok {
			continue
		}
		switch k {
		case "min_ts_ns":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				meta.MinTsNs = timestamp.Timestamp(n)
			}
		case "max_ts_ns":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				meta.MaxTsNs = timestamp.Timestamp(n)
			}
		case "row_count":
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				meta.RowCount = n
			}
		}
	}
}
