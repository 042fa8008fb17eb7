// FILE: store.go
// Package store – PartitionedTickStore: metadata registration, partition
// pruning by time window and instrument, and lazy ordered materialization
// of ticks from a columnar-or-CSV partition layout.
//
// Layout on disk: …/source=<s>/trading_day=<d>/instrument_id=<i>/<file>.parquet
// with optional sidecars <file>.parquet.meta and <file>.parquet.ticks.csv.
// Partition-level I/O failures and malformed rows are skipped silently so a
// replay can proceed over a partially available data set (spec.md §7,
// IoSkipped).
package store

import (
	"log"
	"sort"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

// PartitionedTickStore discovers, registers, prunes, and materializes tick
// partitions into a time-sorted sequence.
type PartitionedTickStore struct {
	root       string
	partitions []model.PartitionMeta
}

// New returns a store rooted at root. No discovery happens until Discover
// or LoadTicks (which discovers lazily if nothing is registered yet) is
// called.
func New(root string) *PartitionedTickStore {
	return &PartitionedTickStore{root: root}
}

// Register appends a partition. Returns false (InvalidPartition) if
// FilePath is empty or MinTsNs > MaxTsNs when both are non-zero.
func (s *PartitionedTickStore) Register(meta model.PartitionMeta) bool {
	if meta.FilePath == "" {
		return false
	}
	if meta.MinTsNs != 0 && meta.MaxTsNs != 0 && meta.MinTsNs > meta.MaxTsNs {
		return false
	}
	s.partitions = append(s.partitions, meta)
	return true
}

// Partitions returns a copy of every registered partition, sorted by
// (MinTsNs, FilePath).
func (s *PartitionedTickStore) Partitions() []model.PartitionMeta {
	out := make([]model.PartitionMeta, len(s.partitions))
	copy(out, s.partitions)
	sortPartitions(out)
	return out
}

func sortPartitions(p []model.PartitionMeta) {
	sort.SliceStable(p, func(i, j int) bool {
		if p[i].MinTsNs != p[j].MinTsNs {
			return p[i].MinTsNs < p[j].MinTsNs
		}
		return p[i].FilePath < p[j].FilePath
	})
}

// Query returns registered partitions whose [MinTsNs, MaxTsNs] window
// intersects [start, end] (or whose bounds are both zero, an "unknown
// range" fallback always included), optionally filtered by instrument.
func (s *PartitionedTickStore) Query(start, end timestamp.Timestamp, instrument string) []model.PartitionMeta {
	var out []model.PartitionMeta
	for _, p := range s.partitions {
		if instrument != "" && p.InstrumentID != instrument {
			continue
		}
		if p.MinTsNs == 0 && p.MaxTsNs == 0 {
			out = append(out, p)
			continue
		}
		if p.MaxTsNs < start || p.MinTsNs > end {
			continue
		}
		out = append(out, p)
	}
	sortPartitions(out)
	return out
}

// LoadTicks returns ticks for symbol within [start, end], ascending by
// TsNs and stable across partitions. If no partitions are registered yet,
// it discovers them from root first. start > end returns an empty result.
func (s *PartitionedTickStore) LoadTicks(symbol string, start, end timestamp.Timestamp) []model.Tick {
	if start > end {
		return nil
	}
	if len(s.partitions) == 0 && s.root != "" {
		discovered, err := Discover(s.root)
		if err != nil {
			log.Printf("store: discover %s: %v", s.root, err)
		}
		s.partitions = discovered
	}

	parts := s.Query(start, end, symbol)

	var out []model.Tick
	for _, p := range parts {
		rows, err := readPartition(p)
		if err != nil {
			log.Printf("store: skip partition %s: %v", p.FilePath, err)
			continue
		}
		for _, t := range rows {
			if t.TsNs < start || t.TsNs > end {
				continue
			}
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TsNs < out[j].TsNs })
	return out
}

// readPartition attempts a columnar read first; on failure it falls back to
// the CSV sidecar. Either reader's failure is reported to the caller, which
// treats it as a skip-and-continue I/O failure.
func readPartition(p model.PartitionMeta) ([]model.Tick, error) {
	rows, err := readColumnar(p.FilePath)
	if err == nil {
		return rows, nil
	}
	return readCSVSidecar(p.FilePath + ".ticks.csv")
}
