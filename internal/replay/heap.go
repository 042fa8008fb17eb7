// FILE: heap.go
// Package replay – a min-heap of discriminated {Tick, Bar} events keyed on
// timestamp, with an explicit sequence counter to make tie-breaking by
// insertion order (stable across and within partitions) unambiguous. Built
// on container/heap: the corpus has no third-party priority-queue library
// in common use for this (see DESIGN.md), and stdlib's heap is the
// idiomatic Go tool for exactly this shape of problem.
package replay

import (
	"container/heap"

	"github.com/chidi150c/backtestcore/internal/model"
	"github.com/chidi150c/backtestcore/internal/timestamp"
)

type eventKind int

const (
	kindTick eventKind = iota
	kindBar
)

type event struct {
	tsNs timestamp.Timestamp
	seq  uint64
	kind eventKind
	tick model.Tick
	bar  model.Bar
}

// eventHeap implements container/heap.Interface, ordered by (tsNs, seq).
type eventHeap []event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].tsNs != h[j].tsNs {
		return h[i].tsNs < h[j].tsNs
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

var _ heap.Interface = (*eventHeap)(nil)
